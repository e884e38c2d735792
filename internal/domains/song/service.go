package song

import (
	"context"

	"github.com/google/uuid"
)

// Service defines song business logic.
type Service interface {
	Create(ctx context.Context, req CreateSongRequest) (*Song, error)
	List(ctx context.Context) ([]Song, error)
	Get(ctx context.Context, id uuid.UUID) (*Song, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSongRequest) (*Song, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Search runs the local catalog search, falling back to the external
	// provider only when the local match set is empty and req.External is set.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)

	// Trending returns the most recently added songs.
	Trending(ctx context.Context, limit int) ([]Song, error)

	// ResolveOrCreate maps an external track onto exactly one local song.
	// A match (by external id, or exact title+artist+album) returns the
	// stored row untouched; a miss creates the row with provenance.
	ResolveOrCreate(ctx context.Context, ext ExternalSong) (*Song, error)

	// Seed bulk-inserts sample songs. Refused in production.
	Seed(ctx context.Context, reqs []CreateSongRequest) (int, error)
}

// ExternalSearcher is the external provider contract consumed by the service.
type ExternalSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]ExternalSong, error)
	Enabled() bool
}
