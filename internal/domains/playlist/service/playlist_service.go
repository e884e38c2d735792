package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"playlist-backend/internal/domains/playlist"
	"playlist-backend/internal/domains/song"
)

type playlistService struct {
	repo  playlist.Repository
	songs playlist.SongResolver
}

// NewService creates the playlist aggregate service.
func NewService(repo playlist.Repository, songs playlist.SongResolver) playlist.Service {
	return &playlistService{
		repo:  repo,
		songs: songs,
	}
}

// authorize loads the playlist and enforces ownership.
func (s *playlistService) authorize(ctx context.Context, playlistID, userID uuid.UUID) (*playlist.Playlist, error) {
	p, err := s.repo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(userID) {
		return nil, playlist.ErrNotPlaylistOwner
	}
	return p, nil
}

func (s *playlistService) Create(ctx context.Context, req playlist.CreatePlaylistRequest, userID uuid.UUID) (*playlist.Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &playlist.Playlist{
		ID:        uuid.New(),
		Name:      req.Name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != "" {
		p.Description = &req.Description
	}
	if req.CoverImage != "" {
		p.CoverImage = &req.CoverImage
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) List(ctx context.Context, userID uuid.UUID) ([]playlist.Summary, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *playlistService) Get(ctx context.Context, id, userID uuid.UUID) (*playlist.Detail, error) {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, id)
}

func (s *playlistService) Update(ctx context.Context, id uuid.UUID, req playlist.UpdatePlaylistRequest, userID uuid.UUID) (*playlist.Playlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.authorize(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.CoverImage != nil {
		p.CoverImage = req.CoverImage
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddSong adds a song to the playlist. An external payload is first
// reconciled into a local song. Adding a song that is already a member
// is a no-op reported as a soft outcome, not an error.
func (s *playlistService) AddSong(ctx context.Context, playlistID uuid.UUID, req playlist.AddSongRequest, userID uuid.UUID) (*playlist.AddSongOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.authorize(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	var resolved *song.Song
	var err error
	if req.External != nil {
		resolved, err = s.songs.ResolveOrCreate(ctx, *req.External)
	} else {
		resolved, err = s.songs.Get(ctx, *req.SongID)
	}
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	orders := make([]int, 0, len(memberships))
	for _, m := range memberships {
		if m.SongID == resolved.ID {
			return &playlist.AddSongOutcome{Song: resolved, Order: m.Order, AlreadyExists: true}, nil
		}
		orders = append(orders, m.Order)
	}

	order := playlist.ComputeInsertionOrder(orders, req.Order)

	membership := &playlist.Membership{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		SongID:     resolved.ID,
		Order:      order,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.AddMembership(ctx, membership); err != nil {
		// A concurrent add of the same song lost us the unique constraint
		// race; report it the same way as the pre-checked case.
		if errors.Is(err, playlist.ErrSongAlreadyInPlaylist) {
			return &playlist.AddSongOutcome{Song: resolved, AlreadyExists: true}, nil
		}
		return nil, err
	}

	return &playlist.AddSongOutcome{Song: resolved, Order: order}, nil
}

// RemoveSong removes a membership and compacts the remaining orders back
// to a dense {1..N} in one transactional batch.
func (s *playlistService) RemoveSong(ctx context.Context, playlistID, songID, userID uuid.UUID) error {
	if _, err := s.authorize(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.repo.RemoveMembership(ctx, playlistID, songID)
}
