package song

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for the song catalog.
type Repository interface {
	Create(ctx context.Context, s *Song) error
	GetByID(ctx context.Context, id uuid.UUID) (*Song, error)
	List(ctx context.Context) ([]Song, error)
	Update(ctx context.Context, s *Song) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Search matches query as a case-insensitive substring of
	// title, artist or album. Returns the page and the total match count.
	Search(ctx context.Context, query string, limit, offset int) ([]Song, int, error)

	// FindExternalMatch looks up a song by provider track id, or failing
	// that by the exact (title, artist, album-or-empty) triple.
	FindExternalMatch(ctx context.Context, externalID, title, artist, album string) (*Song, error)

	// Recent returns the newest songs first.
	Recent(ctx context.Context, limit int) ([]Song, error)

	// IsReferenced reports whether any playlist membership points at the song.
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
