package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"playlist-backend/internal/domains/playlist"
	"playlist-backend/internal/domains/song"
	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
)

type PlaylistHandler struct {
	service playlist.Service
}

func NewPlaylistHandler(service playlist.Service) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// Create - POST /playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req playlist.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), req, middleware.MustUserID(c))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List - GET /playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	playlists, err := h.service.List(c.Request.Context(), middleware.MustUserID(c))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlists)
}

// Get - GET /playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id, middleware.MustUserID(c))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Update - PATCH /playlists/:id
func (h *PlaylistHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	var req playlist.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req, middleware.MustUserID(c))
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete - DELETE /playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.MustUserID(c)); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Playlist deleted successfully"})
}

// AddSong - POST /playlists/:id/songs
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	var req playlist.AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.service.AddSong(c.Request.Context(), id, req, middleware.MustUserID(c))
	if err != nil {
		h.mapError(c, err)
		return
	}

	if outcome.AlreadyExists {
		response.Success(c, http.StatusOK, gin.H{
			"message": "Song already exists in the playlist",
			"song":    outcome.Song,
		})
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Song added to playlist successfully",
		"song":    outcome.Song,
		"order":   outcome.Order,
	})
}

// RemoveSong - DELETE /playlists/:id/songs/:songId
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid playlist id")
		return
	}

	songID, err := uuid.Parse(c.Param("songId"))
	if err != nil {
		response.BadRequest(c, "invalid song id")
		return
	}

	if err := h.service.RemoveSong(c.Request.Context(), id, songID, middleware.MustUserID(c)); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Song removed from playlist successfully"})
}

func (h *PlaylistHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, playlist.ErrPlaylistNotFound),
		errors.Is(err, playlist.ErrMembershipNotFound),
		errors.Is(err, song.ErrSongNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, playlist.ErrNotPlaylistOwner):
		response.Forbidden(c, err.Error())
	default:
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", vErrs)
			return
		}
		response.InternalServerError(c, "something went wrong")
	}
}
