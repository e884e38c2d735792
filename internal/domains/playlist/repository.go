package playlist

import (
	"context"

	"github.com/google/uuid"

	"playlist-backend/internal/domains/song"
)

// Repository defines data access for playlists and their memberships.
type Repository interface {
	Create(ctx context.Context, p *Playlist) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Summary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Playlist, error)

	// GetDetail returns the playlist with entries ordered ascending.
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)

	Update(ctx context.Context, p *Playlist) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListMemberships returns the playlist's memberships ordered ascending.
	ListMemberships(ctx context.Context, playlistID uuid.UUID) ([]Membership, error)

	// AddMembership inserts the join row. Returns ErrSongAlreadyInPlaylist
	// on the (playlist_id, song_id) unique violation.
	AddMembership(ctx context.Context, m *Membership) error

	// RemoveMembership deletes the row and persists the renumbered orders
	// for the surviving memberships in a single transaction, so a
	// concurrent reader never sees a partially renumbered playlist.
	// Returns ErrMembershipNotFound when the row did not exist.
	RemoveMembership(ctx context.Context, playlistID, songID uuid.UUID) error
}

// SongResolver is the slice of the song service the playlist aggregate
// needs: existence checks for local songs and reconciliation for
// external payloads.
type SongResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*song.Song, error)
	ResolveOrCreate(ctx context.Context, ext song.ExternalSong) (*song.Song, error)
}
