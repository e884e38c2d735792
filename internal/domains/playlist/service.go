package playlist

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the playlist aggregate: CRUD plus membership mutations.
// Every operation takes the authenticated actor's userID and enforces
// ownership before touching anything.
type Service interface {
	Create(ctx context.Context, req CreatePlaylistRequest, userID uuid.UUID) (*Playlist, error)
	List(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*Detail, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePlaylistRequest, userID uuid.UUID) (*Playlist, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	AddSong(ctx context.Context, playlistID uuid.UUID, req AddSongRequest, userID uuid.UUID) (*AddSongOutcome, error)
	RemoveSong(ctx context.Context, playlistID, songID, userID uuid.UUID) error
}
