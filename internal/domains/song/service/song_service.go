package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"playlist-backend/internal/domains/song"
	"playlist-backend/internal/shared/utils"
	"playlist-backend/pkg/cache"
	"playlist-backend/pkg/logger"
)

const (
	trendingKeyFormat = "songs:trending:%d"
	trendingTTL       = 5 * time.Minute
)

type songService struct {
	repo     song.Repository
	external song.ExternalSearcher
	cache    cache.Cache
	env      string
}

// NewService creates the song service.
func NewService(repo song.Repository, external song.ExternalSearcher, c cache.Cache, env string) song.Service {
	return &songService{
		repo:     repo,
		external: external,
		cache:    c,
		env:      env,
	}
}

func (s *songService) Create(ctx context.Context, req song.CreateSongRequest) (*song.Song, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	newSong := songFromCreateRequest(req)
	if err := s.repo.Create(ctx, newSong); err != nil {
		return nil, err
	}

	s.invalidateTrending(ctx)
	return newSong, nil
}

func (s *songService) List(ctx context.Context) ([]song.Song, error) {
	return s.repo.List(ctx)
}

func (s *songService) Get(ctx context.Context, id uuid.UUID) (*song.Song, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *songService) Update(ctx context.Context, id uuid.UUID, req song.UpdateSongRequest) (*song.Song, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(existing, req)
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidateTrending(ctx)
	return existing, nil
}

func (s *songService) Delete(ctx context.Context, id uuid.UUID) error {
	// The aggregate refuses to delete a song still named by a membership;
	// the FK RESTRICT in the schema is the backstop.
	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return song.ErrSongInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateTrending(ctx)
	return nil
}

// Search runs the local catalog query first. The external provider is
// consulted only when nothing matched locally AND the caller opted in;
// the two sources are never merged into one page.
func (s *songService) Search(ctx context.Context, req song.SearchRequest) (*song.SearchResult, error) {
	page := req.Page
	if page < 1 {
		page = utils.DefaultPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = utils.DefaultLimit
	}
	offset := (page - 1) * limit

	songs, total, err := s.repo.Search(ctx, req.Query, limit, offset)
	if err != nil {
		return nil, err
	}

	if !req.External || total > 0 {
		return &song.SearchResult{
			Songs:      songs,
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: utils.TotalPages(total, limit),
			Source:     song.SearchSourceLocal,
		}, nil
	}

	// Provider failures degrade to an empty result, never an error.
	external, err := s.external.SearchTracks(ctx, req.Query, limit)
	if err != nil {
		logger.Warn("external search failed", err)
		external = nil
	}

	return &song.SearchResult{
		External:   external,
		Total:      len(external),
		Page:       1,
		Limit:      limit,
		TotalPages: 1,
		Source:     song.SearchSourceExternal,
	}, nil
}

func (s *songService) Trending(ctx context.Context, limit int) ([]song.Song, error) {
	if limit < 1 {
		limit = 10
	}

	key := fmt.Sprintf(trendingKeyFormat, limit)

	var cached []song.Song
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	songs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, songs, trendingTTL); err != nil {
		logger.Warn("cache trending songs", err)
	}
	return songs, nil
}

// ResolveOrCreate maps an external track onto exactly one local row.
// First write wins: a match returns the stored song with no metadata refresh.
func (s *songService) ResolveOrCreate(ctx context.Context, ext song.ExternalSong) (*song.Song, error) {
	existing, err := s.repo.FindExternalMatch(ctx, ext.ExternalID, ext.Title, ext.Artist, ext.Album)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, song.ErrSongNotFound) {
		return nil, err
	}

	newSong := ext.ToSong()
	err = s.repo.Create(ctx, newSong)
	if err == nil {
		s.invalidateTrending(ctx)
		return newSong, nil
	}

	// Unique violation means another writer created the row between our
	// lookup and insert; the constraint is the arbiter, re-read and yield.
	if errors.Is(err, song.ErrDuplicateSong) {
		return s.repo.FindExternalMatch(ctx, ext.ExternalID, ext.Title, ext.Artist, ext.Album)
	}
	return nil, err
}

func (s *songService) Seed(ctx context.Context, reqs []song.CreateSongRequest) (int, error) {
	if s.env == "production" {
		return 0, song.ErrSeedingForbidden
	}

	created := 0
	for _, req := range reqs {
		if err := req.Validate(); err != nil {
			return created, err
		}
		if err := s.repo.Create(ctx, songFromCreateRequest(req)); err != nil {
			return created, err
		}
		created++
	}

	s.invalidateTrending(ctx)
	return created, nil
}

func (s *songService) invalidateTrending(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "songs:trending:*"); err != nil {
		logger.Warn("invalidate trending cache", err)
	}
}

func songFromCreateRequest(req song.CreateSongRequest) *song.Song {
	now := time.Now()
	newSong := &song.Song{
		ID:        uuid.New(),
		Title:     req.Title,
		Artist:    req.Artist,
		Duration:  req.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.Album != "" {
		newSong.Album = &req.Album
	}
	if req.ReleaseYear != 0 {
		newSong.ReleaseYear = &req.ReleaseYear
	}
	if req.Genre != "" {
		newSong.Genre = &req.Genre
	}
	if req.CoverImage != "" {
		newSong.CoverImage = &req.CoverImage
	}
	if req.PreviewURL != "" {
		newSong.PreviewURL = &req.PreviewURL
	}
	if req.ExternalID != "" {
		newSong.ExternalID = &req.ExternalID
	}
	return newSong
}

func applyUpdate(s *song.Song, req song.UpdateSongRequest) {
	if req.Title != nil {
		s.Title = *req.Title
	}
	if req.Artist != nil {
		s.Artist = *req.Artist
	}
	if req.Album != nil {
		s.Album = req.Album
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	if req.ReleaseYear != nil {
		s.ReleaseYear = req.ReleaseYear
	}
	if req.Genre != nil {
		s.Genre = req.Genre
	}
	if req.CoverImage != nil {
		s.CoverImage = req.CoverImage
	}
	if req.PreviewURL != nil {
		s.PreviewURL = req.PreviewURL
	}
}
