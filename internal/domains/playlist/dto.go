package playlist

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"playlist-backend/internal/domains/song"
)

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
}

func (r CreatePlaylistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 255)),
		validation.Field(&r.CoverImage, validation.When(r.CoverImage != "", is.URL)),
	)
}

// UpdatePlaylistRequest applies a partial edit; nil fields are unchanged.
type UpdatePlaylistRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
}

func (r UpdatePlaylistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil, validation.Length(1, 255))),
	)
}

// AddSongRequest names the song to add either by local id or by an
// external payload that still needs reconciliation. Order is optional;
// absent means append.
type AddSongRequest struct {
	SongID   *uuid.UUID         `json:"songId,omitempty"`
	External *song.ExternalSong `json:"externalSong,omitempty"`
	Order    *int               `json:"order,omitempty"`
}

func (r AddSongRequest) Validate() error {
	if (r.SongID == nil) == (r.External == nil) {
		return errors.New("exactly one of songId or externalSong must be provided")
	}
	if r.External != nil {
		if r.External.Title == "" || r.External.Artist == "" || r.External.ExternalID == "" {
			return errors.New("externalSong requires title, artist and externalId")
		}
	}
	return nil
}

// AddSongOutcome distinguishes a fresh insert from the soft "already in
// playlist" case, which is a success, not an error.
type AddSongOutcome struct {
	Song          *song.Song `json:"song"`
	Order         int        `json:"order,omitempty"`
	AlreadyExists bool       `json:"alreadyExists"`
}
