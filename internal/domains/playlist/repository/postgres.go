package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"playlist-backend/internal/domains/playlist"
	"playlist-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the raw-SQL playlist repository.
func NewPostgresRepository(pool *pgxpool.Pool) playlist.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *playlist.Playlist) error {
	query := `
		INSERT INTO playlists (id, name, description, cover_image, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.CoverImage, p.UserID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]playlist.Summary, error) {
	query := `
		SELECT p.id, p.name, p.description, p.cover_image, p.user_id,
			p.created_at, p.updated_at,
			COUNT(ps.id) AS song_count
		FROM playlists p
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var summaries []playlist.Summary
	for rows.Next() {
		var s playlist.Summary
		err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.CoverImage, &s.UserID,
			&s.CreatedAt, &s.UpdatedAt, &s.SongCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan playlist summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return summaries, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*playlist.Playlist, error) {
	query := `
		SELECT id, name, description, cover_image, user_id, created_at, updated_at
		FROM playlists WHERE id = $1`

	var p playlist.Playlist
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.CoverImage, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, playlist.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetDetail(ctx context.Context, id uuid.UUID) (*playlist.Detail, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ps.id, ps.playlist_id, ps.song_id, ps."order", ps.created_at,
			s.id, s.title, s.artist, s.album, s.duration, s.release_year, s.genre,
			s.cover_image, s.preview_url, s.external_id, s.external_url, s.source,
			s.popularity, s.created_at, s.updated_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps."order" ASC`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list playlist entries: %w", err)
	}
	defer rows.Close()

	detail := &playlist.Detail{Playlist: *p, Songs: []playlist.Entry{}}
	for rows.Next() {
		var e playlist.Entry
		err := rows.Scan(
			&e.Membership.ID, &e.PlaylistID, &e.SongID, &e.Order, &e.Membership.CreatedAt,
			&e.Song.ID, &e.Song.Title, &e.Song.Artist, &e.Song.Album, &e.Song.Duration,
			&e.Song.ReleaseYear, &e.Song.Genre, &e.Song.CoverImage, &e.Song.PreviewURL,
			&e.Song.ExternalID, &e.Song.ExternalURL, &e.Song.Source, &e.Song.Popularity,
			&e.Song.CreatedAt, &e.Song.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan playlist entry: %w", err)
		}
		detail.Songs = append(detail.Songs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return detail, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *playlist.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, cover_image = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Description, p.CoverImage, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return playlist.ErrPlaylistNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// memberships go with it via ON DELETE CASCADE
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return playlist.ErrPlaylistNotFound
	}
	return nil
}

func (r *postgresRepository) ListMemberships(ctx context.Context, playlistID uuid.UUID) ([]playlist.Membership, error) {
	query := `
		SELECT id, playlist_id, song_id, "order", created_at
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY "order" ASC`

	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return collectMemberships(rows)
}

func (r *postgresRepository) AddMembership(ctx context.Context, m *playlist.Membership) error {
	query := `
		INSERT INTO playlist_songs (id, playlist_id, song_id, "order", created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.PlaylistID, m.SongID, m.Order, m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return playlist.ErrSongAlreadyInPlaylist
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// RemoveMembership deletes the join row and compacts the surviving orders
// back to {1..N} in one transaction. The surviving rows are locked
// (FOR UPDATE) so a concurrent add or remove cannot interleave.
func (r *postgresRepository) RemoveMembership(ctx context.Context, playlistID, songID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
			playlistID, songID,
		)
		if err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return playlist.ErrMembershipNotFound
		}

		rows, err := tx.Query(ctx, `
			SELECT id, playlist_id, song_id, "order", created_at
			FROM playlist_songs
			WHERE playlist_id = $1
			ORDER BY "order" ASC
			FOR UPDATE`, playlistID)
		if err != nil {
			return fmt.Errorf("list remaining memberships: %w", err)
		}

		remaining, err := collectMemberships(rows)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, m := range playlist.RenumberAfterRemoval(remaining) {
			batch.Queue(`UPDATE playlist_songs SET "order" = $2 WHERE id = $1`, m.ID, m.Order)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range remaining {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("renumber membership: %w", err)
			}
		}
		return nil
	})
}

func collectMemberships(rows pgx.Rows) ([]playlist.Membership, error) {
	defer rows.Close()

	var memberships []playlist.Membership
	for rows.Next() {
		var m playlist.Membership
		if err := rows.Scan(&m.ID, &m.PlaylistID, &m.SongID, &m.Order, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return memberships, nil
}
