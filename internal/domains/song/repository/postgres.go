package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlist-backend/internal/domains/song"
)

const songColumns = `id, title, artist, album, duration, release_year, genre,
	cover_image, preview_url, external_id, external_url, source, popularity,
	created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the raw-SQL song repository.
func NewPostgresRepository(pool *pgxpool.Pool) song.Repository {
	return &postgresRepository{pool: pool}
}

func scanSong(row pgx.Row) (*song.Song, error) {
	var s song.Song
	err := row.Scan(
		&s.ID, &s.Title, &s.Artist, &s.Album, &s.Duration, &s.ReleaseYear,
		&s.Genre, &s.CoverImage, &s.PreviewURL, &s.ExternalID, &s.ExternalURL,
		&s.Source, &s.Popularity, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSongs(rows pgx.Rows) ([]song.Song, error) {
	defer rows.Close()

	var songs []song.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return songs, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *song.Song) error {
	query := `
		INSERT INTO songs (id, title, artist, album, duration, release_year, genre,
			cover_image, preview_url, external_id, external_url, source, popularity,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Title, s.Artist, s.Album, s.Duration, s.ReleaseYear, s.Genre,
		s.CoverImage, s.PreviewURL, s.ExternalID, s.ExternalURL, s.Source,
		s.Popularity, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return song.ErrDuplicateSong
		}
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*song.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs WHERE id = $1`, songColumns)

	s, err := scanSong(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, song.ErrSongNotFound
		}
		return nil, fmt.Errorf("get song: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]song.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs ORDER BY created_at DESC`, songColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return collectSongs(rows)
}

func (r *postgresRepository) Update(ctx context.Context, s *song.Song) error {
	query := `
		UPDATE songs
		SET title = $2, artist = $3, album = $4, duration = $5, release_year = $6,
			genre = $7, cover_image = $8, preview_url = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		s.ID, s.Title, s.Artist, s.Album, s.Duration, s.ReleaseYear,
		s.Genre, s.CoverImage, s.PreviewURL, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return song.ErrSongNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// foreign_key_violation: still referenced by a playlist
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return song.ErrSongInUse
		}
		return fmt.Errorf("delete song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return song.ErrSongNotFound
	}
	return nil
}

func (r *postgresRepository) Search(ctx context.Context, query string, limit, offset int) ([]song.Song, int, error) {
	pattern := "%" + query + "%"

	var total int
	countQuery := `
		SELECT COUNT(*) FROM songs
		WHERE title ILIKE $1 OR artist ILIKE $1 OR album ILIKE $1`
	if err := r.pool.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search matches: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s FROM songs
		WHERE title ILIKE $1 OR artist ILIKE $1 OR album ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, songColumns)

	rows, err := r.pool.Query(ctx, listQuery, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search songs: %w", err)
	}

	songs, err := collectSongs(rows)
	if err != nil {
		return nil, 0, err
	}
	return songs, total, nil
}

func (r *postgresRepository) FindExternalMatch(ctx context.Context, externalID, title, artist, album string) (*song.Song, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM songs
		WHERE external_id = $1
		   OR (title = $2 AND artist = $3 AND COALESCE(album, '') = $4)
		LIMIT 1`, songColumns)

	s, err := scanSong(r.pool.QueryRow(ctx, query, externalID, title, artist, album))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, song.ErrSongNotFound
		}
		return nil, fmt.Errorf("find external match: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Recent(ctx context.Context, limit int) ([]song.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs ORDER BY created_at DESC LIMIT $1`, songColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent songs: %w", err)
	}
	return collectSongs(rows)
}

func (r *postgresRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM playlist_songs WHERE song_id = $1)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check song references: %w", err)
	}
	return exists, nil
}
