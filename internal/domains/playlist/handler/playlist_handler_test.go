package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/playlist"
	"playlist-backend/internal/domains/song"
	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
)

// stubService returns canned results so the handler's status mapping and
// envelope shape can be exercised without a database.
type stubService struct {
	addOutcome *playlist.AddSongOutcome
	err        error
}

func (s *stubService) Create(context.Context, playlist.CreatePlaylistRequest, uuid.UUID) (*playlist.Playlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &playlist.Playlist{ID: uuid.New(), Name: "Chill"}, nil
}

func (s *stubService) List(context.Context, uuid.UUID) ([]playlist.Summary, error) {
	return nil, s.err
}

func (s *stubService) Get(context.Context, uuid.UUID, uuid.UUID) (*playlist.Detail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &playlist.Detail{}, nil
}

func (s *stubService) Update(context.Context, uuid.UUID, playlist.UpdatePlaylistRequest, uuid.UUID) (*playlist.Playlist, error) {
	return nil, s.err
}

func (s *stubService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func (s *stubService) AddSong(context.Context, uuid.UUID, playlist.AddSongRequest, uuid.UUID) (*playlist.AddSongOutcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.addOutcome, nil
}

func (s *stubService) RemoveSong(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
	return s.err
}

func newTestRouter(svc playlist.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPlaylistHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New())
	})
	r.POST("/playlists", h.Create)
	r.GET("/playlists/:id", h.Get)
	r.POST("/playlists/:id/songs", h.AddSong)
	r.DELETE("/playlists/:id/songs/:songId", h.RemoveSong)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestAddSongCreated(t *testing.T) {
	svc := &stubService{
		addOutcome: &playlist.AddSongOutcome{
			Song:  &song.Song{ID: uuid.New(), Title: "Starman"},
			Order: 4,
		},
	}
	r := newTestRouter(svc)

	songID := uuid.New()
	rec, envelope := doJSON(t, r, http.MethodPost, "/playlists/"+uuid.NewString()+"/songs",
		playlist.AddSongRequest{SongID: &songID})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, envelope.Success)
}

func TestAddSongAlreadyExistsIsOK(t *testing.T) {
	svc := &stubService{
		addOutcome: &playlist.AddSongOutcome{
			Song:          &song.Song{ID: uuid.New(), Title: "Starman"},
			AlreadyExists: true,
		},
	}
	r := newTestRouter(svc)

	songID := uuid.New()
	rec, envelope := doJSON(t, r, http.MethodPost, "/playlists/"+uuid.NewString()+"/songs",
		playlist.AddSongRequest{SongID: &songID})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}

func TestAddSongRejectsAmbiguousBody(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec, envelope := doJSON(t, r, http.MethodPost, "/playlists/"+uuid.NewString()+"/songs",
		playlist.AddSongRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
}

func TestAddSongInvalidPlaylistID(t *testing.T) {
	r := newTestRouter(&stubService{})

	songID := uuid.New()
	rec, _ := doJSON(t, r, http.MethodPost, "/playlists/not-a-uuid/songs",
		playlist.AddSongRequest{SongID: &songID})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"playlist not found", playlist.ErrPlaylistNotFound, http.StatusNotFound},
		{"membership not found", playlist.ErrMembershipNotFound, http.StatusNotFound},
		{"song not found", song.ErrSongNotFound, http.StatusNotFound},
		{"not the owner", playlist.ErrNotPlaylistOwner, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubService{err: tt.err})

			rec, envelope := doJSON(t, r, http.MethodGet, "/playlists/"+uuid.NewString(), nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.False(t, envelope.Success)
		})
	}
}

func TestRemoveSongOK(t *testing.T) {
	r := newTestRouter(&stubService{})

	rec, envelope := doJSON(t, r, http.MethodDelete,
		"/playlists/"+uuid.NewString()+"/songs/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
}
