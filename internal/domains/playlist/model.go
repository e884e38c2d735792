package playlist

import (
	"time"

	"github.com/google/uuid"

	"playlist-backend/internal/domains/song"
)

// Playlist is owned by exactly one user; only the owner may read or
// mutate it. Memberships are owned by the playlist (cascade on delete).
type Playlist struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CoverImage  *string   `db:"cover_image" json:"coverImage,omitempty"`
	UserID      uuid.UUID `db:"user_id" json:"userId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// IsOwnedBy reports whether userID owns the playlist.
func (p *Playlist) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// Summary is the list-view shape: a playlist plus its member count.
type Summary struct {
	Playlist
	SongCount int `db:"song_count" json:"songCount"`
}

// Membership is the playlist-song join row. For a fixed playlist the
// Order values form the dense set {1..N}; (PlaylistID, SongID) is unique.
type Membership struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PlaylistID uuid.UUID `db:"playlist_id" json:"playlistId"`
	SongID     uuid.UUID `db:"song_id" json:"songId"`
	Order      int       `db:"order" json:"order"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Entry is a membership joined with its song, for the detail view.
type Entry struct {
	Membership
	Song song.Song `json:"song"`
}

// Detail is a playlist with its entries ordered ascending.
type Detail struct {
	Playlist
	Songs []Entry `json:"songs"`
}
