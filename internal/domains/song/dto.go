package song

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateSongRequest creates a local catalog song.
type CreateSongRequest struct {
	Title       string `json:"title" binding:"required"`
	Artist      string `json:"artist" binding:"required"`
	Album       string `json:"album,omitempty"`
	Duration    int    `json:"duration" binding:"required"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	Genre       string `json:"genre,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
	ExternalID  string `json:"externalId,omitempty"`
}

func (r CreateSongRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 500)),
		validation.Field(&r.Artist, validation.Required.Error("artist is required"), validation.Length(1, 500)),
		validation.Field(&r.Duration, validation.Required, validation.Min(1).Error("duration must be at least 1 second")),
		validation.Field(&r.CoverImage, validation.When(r.CoverImage != "", is.URL)),
		validation.Field(&r.PreviewURL, validation.When(r.PreviewURL != "", is.URL)),
	)
}

// UpdateSongRequest applies a partial edit; nil fields are left unchanged.
type UpdateSongRequest struct {
	Title       *string `json:"title,omitempty"`
	Artist      *string `json:"artist,omitempty"`
	Album       *string `json:"album,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	ReleaseYear *int    `json:"releaseYear,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
	PreviewURL  *string `json:"previewUrl,omitempty"`
}

func (r UpdateSongRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.When(r.Title != nil, validation.Length(1, 500))),
		validation.Field(&r.Artist, validation.When(r.Artist != nil, validation.Length(1, 500))),
		validation.Field(&r.Duration, validation.When(r.Duration != nil, validation.Min(1))),
	)
}

// ImportSongRequest persists an externally-found track through reconciliation.
type ImportSongRequest struct {
	ExternalSong
}

func (r ImportSongRequest) Validate() error {
	return validation.ValidateStruct(&r.ExternalSong,
		validation.Field(&r.ExternalSong.Title, validation.Required.Error("title is required")),
		validation.Field(&r.ExternalSong.Artist, validation.Required.Error("artist is required")),
		validation.Field(&r.ExternalSong.ExternalID, validation.Required.Error("externalId is required")),
		validation.Field(&r.ExternalSong.Source, validation.Required.Error("source is required")),
	)
}

// SearchRequest queries the catalog.
// External enables the provider fallback when the local match set is empty.
type SearchRequest struct {
	Query    string
	Page     int
	Limit    int
	External bool
}

const (
	SearchSourceLocal    = "local"
	SearchSourceExternal = SourceSpotify
)

// SearchResult is a single-source page of results: either local songs or
// external tracks, never both.
type SearchResult struct {
	Songs      []Song         `json:"songs,omitempty"`
	External   []ExternalSong `json:"external,omitempty"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Source     string         `json:"source"`
}
