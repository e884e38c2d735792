package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/config"
	"playlist-backend/internal/domains/song"
)

const searchBody = `{
	"tracks": {
		"items": [
			{
				"id": "4uLU6hMCjMI75M1A2tKUQC",
				"name": "Never Gonna Give You Up",
				"artists": [{"id": "a1", "name": "Rick Astley"}],
				"album": {
					"id": "al1",
					"name": "Whenever You Need Somebody",
					"release_date": "1987-11-16",
					"images": [
						{"url": "https://img.example/640.jpg", "height": 640, "width": 640},
						{"url": "https://img.example/300.jpg", "height": 300, "width": 300}
					]
				},
				"duration_ms": 213573,
				"preview_url": "https://p.example/preview.mp3",
				"external_urls": {"spotify": "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"},
				"popularity": 87
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/search", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient(config.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/api/token",
		APIURL:       srv.URL,
		Timeout:      5 * time.Second,
	})
}

func TestSearchTracksMapsResponse(t *testing.T) {
	var gotQuery, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	})

	tracks, err := client.SearchTracks(context.Background(), "never gonna", 10)
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	assert.Equal(t, "never gonna", gotQuery)
	assert.Equal(t, "Bearer test-token", gotAuth)

	got := tracks[0]
	assert.Equal(t, "spotify-4uLU6hMCjMI75M1A2tKUQC", got.ID)
	assert.Equal(t, "4uLU6hMCjMI75M1A2tKUQC", got.ExternalID)
	assert.Equal(t, "Never Gonna Give You Up", got.Title)
	assert.Equal(t, "Rick Astley", got.Artist)
	assert.Equal(t, "Whenever You Need Somebody", got.Album)
	assert.Equal(t, 213, got.Duration)
	assert.Equal(t, 1987, got.ReleaseYear)
	assert.Equal(t, "https://img.example/640.jpg", got.CoverImage)
	assert.Equal(t, song.SourceSpotify, got.Source)
	assert.Equal(t, 87, got.Popularity)
}

func TestSearchTracksErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchTracks(context.Background(), "q", 5)
	assert.Error(t, err)
}

func TestDisabledClientReturnsNothing(t *testing.T) {
	client := NewClient(config.SpotifyConfig{})
	assert.False(t, client.Enabled())

	tracks, err := client.SearchTracks(context.Background(), "q", 5)
	assert.NoError(t, err)
	assert.Nil(t, tracks)
}

func TestMapTrackJoinsArtists(t *testing.T) {
	got := mapTrack(Track{
		ID:   "t1",
		Name: "Under Pressure",
		Artists: []Artist{
			{Name: "Queen"},
			{Name: "David Bowie"},
		},
		DurationMS: 242000,
	})

	assert.Equal(t, "Queen, David Bowie", got.Artist)
	assert.Equal(t, 242, got.Duration)
	assert.Empty(t, got.CoverImage)
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1987-11-16", 1987},
		{"2006-01", 2006},
		{"1999", 1999},
		{"", 0},
		{"19", 0},
		{"abcd-01-01", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, releaseYear(tt.in), "release_date %q", tt.in)
	}
}
