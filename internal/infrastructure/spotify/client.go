// Spotify Web API search client using the OAuth2 client-credentials flow.
//
// Response types follow https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"playlist-backend/internal/config"
	"playlist-backend/internal/domains/song"
)

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"` // "2006", "2006-01" or "2006-01-02"
	Images      []Image `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	DurationMS   int          `json:"duration_ms"`
	PreviewURL   string       `json:"preview_url"`
	ExternalURLs externalURLs `json:"external_urls"`
	Popularity   int          `json:"popularity"`
}

type searchResponse struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
}

// Client performs track searches against the Spotify Web API.
// The zero credentials case yields a disabled client whose searches
// return empty results, matching the degrade-to-empty contract.
type Client struct {
	httpClient *http.Client
	apiURL     string
	enabled    bool
}

// NewClient builds a Client from config. The oauth2 transport caches the
// access token and refreshes it before expiry.
func NewClient(cfg config.SpotifyConfig) *Client {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return &Client{enabled: false}
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		enabled:    true,
	}
}

// Enabled reports whether credentials were configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// SearchTracks queries Spotify for tracks and maps them into the local
// external-song shape.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]song.ExternalSong, error) {
	if !c.enabled {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/search?%s", c.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify search returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode spotify response: %w", err)
	}

	tracks := make([]song.ExternalSong, 0, len(result.Tracks.Items))
	for _, t := range result.Tracks.Items {
		tracks = append(tracks, mapTrack(t))
	}
	return tracks, nil
}

func mapTrack(t Track) song.ExternalSong {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	cover := ""
	if len(t.Album.Images) > 0 {
		cover = t.Album.Images[0].URL
	}

	return song.ExternalSong{
		ID:          "spotify-" + t.ID,
		Title:       t.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       t.Album.Name,
		Duration:    t.DurationMS / 1000,
		CoverImage:  cover,
		PreviewURL:  t.PreviewURL,
		ExternalID:  t.ID,
		ExternalURL: t.ExternalURLs.Spotify,
		Source:      song.SourceSpotify,
		Popularity:  t.Popularity,
		ReleaseYear: releaseYear(t.Album.ReleaseDate),
	}
}

// releaseYear extracts the year from Spotify's variable-precision release dates.
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
