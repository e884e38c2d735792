package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"playlist-backend/internal/domains/song"
	"playlist-backend/internal/shared/response"
	"playlist-backend/internal/shared/utils"
)

type SongHandler struct {
	service song.Service
}

func NewSongHandler(service song.Service) *SongHandler {
	return &SongHandler{service: service}
}

// Create - POST /songs
func (h *SongHandler) Create(c *gin.Context) {
	var req song.CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// List - GET /songs
func (h *SongHandler) List(c *gin.Context) {
	songs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, songs)
}

// Search - GET /songs/search?query=&page=&limit=&external=
func (h *SongHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.BadRequest(c, "query parameter is required")
		return
	}

	req := song.SearchRequest{
		Query:    query,
		Page:     utils.ParsePage(c.Query("page")),
		Limit:    utils.ParseLimit(c.Query("limit"), utils.DefaultLimit),
		External: c.Query("external") == "true",
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	data := interface{}(result.Songs)
	if result.Source != song.SearchSourceLocal {
		data = result.External
	}

	response.SuccessWithMeta(c, http.StatusOK, data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Source:     result.Source,
	})
}

// Trending - GET /songs/trending?limit=
func (h *SongHandler) Trending(c *gin.Context) {
	limit := utils.ParseLimit(c.Query("limit"), 10)

	songs, err := h.service.Trending(c.Request.Context(), limit)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, songs)
}

// Import - POST /songs/import
// Persists an externally-found track through reconciliation.
func (h *SongHandler) Import(c *gin.Context) {
	var req song.ImportSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid import payload", err.Error())
		return
	}

	resolved, err := h.service.ResolveOrCreate(c.Request.Context(), req.ExternalSong)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resolved)
}

// Get - GET /songs/:id
func (h *SongHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid song id")
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, found)
}

// Update - PATCH /songs/:id
func (h *SongHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid song id")
		return
	}

	var req song.UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete - DELETE /songs/:id
func (h *SongHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid song id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Song deleted successfully"})
}

// Seed - POST /songs/seed
func (h *SongHandler) Seed(c *gin.Context) {
	var reqs []song.CreateSongRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	count, err := h.service.Seed(c.Request.Context(), reqs)
	if err != nil {
		h.mapError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Songs seeded successfully",
		"count":   count,
	})
}

func (h *SongHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, song.ErrSongNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, song.ErrSongInUse), errors.Is(err, song.ErrDuplicateSong):
		response.Conflict(c, err.Error())
	case errors.Is(err, song.ErrSeedingForbidden):
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
