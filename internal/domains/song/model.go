package song

import (
	"time"

	"github.com/google/uuid"
)

// SourceSpotify is the provider tag for songs imported from Spotify.
const SourceSpotify = "spotify"

// Song is the catalog entity, shared across playlists.
// Optional columns map to pointers.
type Song struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Title  string    `db:"title" json:"title"`
	Artist string    `db:"artist" json:"artist"`
	Album  *string   `db:"album" json:"album,omitempty"`

	// Duration is in seconds
	Duration    int     `db:"duration" json:"duration"`
	ReleaseYear *int    `db:"release_year" json:"releaseYear,omitempty"`
	Genre       *string `db:"genre" json:"genre,omitempty"`
	CoverImage  *string `db:"cover_image" json:"coverImage,omitempty"`
	PreviewURL  *string `db:"preview_url" json:"previewUrl,omitempty"`

	// Provenance. Source set implies ExternalID set (enforced in the schema).
	ExternalID  *string `db:"external_id" json:"externalId,omitempty"`
	ExternalURL *string `db:"external_url" json:"externalUrl,omitempty"`
	Source      *string `db:"source" json:"source,omitempty"`
	Popularity  *int    `db:"popularity" json:"popularity,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// IsExternal reports whether the song was imported from an external provider.
func (s *Song) IsExternal() bool {
	return s.Source != nil && *s.Source != ""
}

// AlbumOrEmpty returns the album title, or "" when unset. The reconciliation
// triple match treats a missing album as the empty string.
func (s *Song) AlbumOrEmpty() string {
	if s.Album == nil {
		return ""
	}
	return *s.Album
}

// ExternalSong is a track as returned by an external provider, already
// translated into the local song shape. ID is a synthetic provider-prefixed
// identifier (e.g. "spotify-4uLU6hMC...") used only for UI disambiguation
// before the track is persisted; it is stripped on import.
type ExternalSong struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	Duration    int    `json:"duration"`
	CoverImage  string `json:"coverImage,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	ExternalID  string `json:"externalId"`
	ExternalURL string `json:"externalUrl,omitempty"`
	Source      string `json:"source"`
	Popularity  int    `json:"popularity,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	Genre       string `json:"genre,omitempty"`
}

// ToSong converts the payload into a new Song row carrying provenance.
// The synthetic ID is discarded; the database assigns the identity.
func (e ExternalSong) ToSong() *Song {
	now := time.Now()
	s := &Song{
		ID:        uuid.New(),
		Title:     e.Title,
		Artist:    e.Artist,
		Duration:  e.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if e.Album != "" {
		s.Album = &e.Album
	}
	if e.ReleaseYear != 0 {
		s.ReleaseYear = &e.ReleaseYear
	}
	if e.Genre != "" {
		s.Genre = &e.Genre
	}
	if e.CoverImage != "" {
		s.CoverImage = &e.CoverImage
	}
	if e.PreviewURL != "" {
		s.PreviewURL = &e.PreviewURL
	}
	if e.ExternalID != "" {
		s.ExternalID = &e.ExternalID
	}
	if e.ExternalURL != "" {
		s.ExternalURL = &e.ExternalURL
	}
	if e.Source != "" {
		s.Source = &e.Source
	}
	popularity := e.Popularity
	s.Popularity = &popularity

	return s
}
