package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-backend/internal/domains/song"
)

// fakeSongRepo is an in-memory song.Repository enforcing the external
// identity constraint the partial unique index enforces in Postgres.
type fakeSongRepo struct {
	songs      map[uuid.UUID]*song.Song
	referenced map[uuid.UUID]bool
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{
		songs:      make(map[uuid.UUID]*song.Song),
		referenced: make(map[uuid.UUID]bool),
	}
}

func (r *fakeSongRepo) Create(_ context.Context, s *song.Song) error {
	for _, existing := range r.songs {
		if s.Source != nil && existing.Source != nil &&
			*s.Source == *existing.Source &&
			s.ExternalID != nil && existing.ExternalID != nil &&
			*s.ExternalID == *existing.ExternalID {
			return song.ErrDuplicateSong
		}
	}
	cp := *s
	r.songs[s.ID] = &cp
	return nil
}

func (r *fakeSongRepo) GetByID(_ context.Context, id uuid.UUID) (*song.Song, error) {
	s, ok := r.songs[id]
	if !ok {
		return nil, song.ErrSongNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSongRepo) List(_ context.Context) ([]song.Song, error) {
	out := make([]song.Song, 0, len(r.songs))
	for _, s := range r.songs {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSongRepo) Update(_ context.Context, s *song.Song) error {
	if _, ok := r.songs[s.ID]; !ok {
		return song.ErrSongNotFound
	}
	cp := *s
	r.songs[s.ID] = &cp
	return nil
}

func (r *fakeSongRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.songs[id]; !ok {
		return song.ErrSongNotFound
	}
	delete(r.songs, id)
	return nil
}

func (r *fakeSongRepo) Search(_ context.Context, query string, limit, offset int) ([]song.Song, int, error) {
	var matched []song.Song
	q := strings.ToLower(query)
	for _, s := range r.songs {
		if strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(strings.ToLower(s.Artist), q) {
			matched = append(matched, *s)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeSongRepo) FindExternalMatch(_ context.Context, externalID, title, artist, album string) (*song.Song, error) {
	for _, s := range r.songs {
		if s.ExternalID != nil && *s.ExternalID == externalID {
			cp := *s
			return &cp, nil
		}
		if s.Title == title && s.Artist == artist && s.AlbumOrEmpty() == album {
			cp := *s
			return &cp, nil
		}
	}
	return nil, song.ErrSongNotFound
}

func (r *fakeSongRepo) Recent(_ context.Context, limit int) ([]song.Song, error) {
	out, _ := r.List(context.Background())
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSongRepo) IsReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	return r.referenced[id], nil
}

// fakeSearcher records calls and returns canned tracks or a canned error.
type fakeSearcher struct {
	tracks []song.ExternalSong
	err    error
	calls  int
}

func (f *fakeSearcher) SearchTracks(context.Context, string, int) ([]song.ExternalSong, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeSearcher) Enabled() bool { return true }

// memCache is an in-memory cache.Cache. Values round-trip through JSON
// the way the Redis implementation stores them.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) DeletePattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }

func newTestService(env string) (song.Service, *fakeSongRepo, *fakeSearcher, *memCache) {
	repo := newFakeSongRepo()
	searcher := &fakeSearcher{}
	c := newMemCache()
	return NewService(repo, searcher, c, env), repo, searcher, c
}

func seedSong(t *testing.T, svc song.Service, title, artist string) *song.Song {
	t.Helper()
	s, err := svc.Create(context.Background(), song.CreateSongRequest{
		Title:    title,
		Artist:   artist,
		Duration: 200,
	})
	require.NoError(t, err)
	return s
}

func externalTrack(externalID string) song.ExternalSong {
	return song.ExternalSong{
		ID:         "spotify-" + externalID,
		Title:      "Starman",
		Artist:     "David Bowie",
		Album:      "The Rise and Fall of Ziggy Stardust",
		Duration:   256,
		ExternalID: externalID,
		Source:     song.SourceSpotify,
		Popularity: 80,
	}
}

func TestCreateSongValidation(t *testing.T) {
	svc, _, _, _ := newTestService("test")

	_, err := svc.Create(context.Background(), song.CreateSongRequest{Artist: "a", Duration: 100})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), song.CreateSongRequest{Title: "t", Artist: "a", Duration: 0})
	assert.Error(t, err)
}

func TestSearchLocalResultsWinOverExternal(t *testing.T) {
	svc, _, searcher, _ := newTestService("test")
	seedSong(t, svc, "Paranoid Android", "Radiohead")
	searcher.tracks = []song.ExternalSong{externalTrack("x")}

	res, err := svc.Search(context.Background(), song.SearchRequest{Query: "paranoid", External: true})
	require.NoError(t, err)

	assert.Equal(t, song.SearchSourceLocal, res.Source)
	assert.Len(t, res.Songs, 1)
	assert.Empty(t, res.External)
	assert.Equal(t, 0, searcher.calls)
}

func TestSearchExternalFallbackOnEmptyLocal(t *testing.T) {
	svc, _, searcher, _ := newTestService("test")
	searcher.tracks = []song.ExternalSong{externalTrack("x"), externalTrack("y")}

	res, err := svc.Search(context.Background(), song.SearchRequest{Query: "starman", External: true})
	require.NoError(t, err)

	assert.Equal(t, song.SearchSourceExternal, res.Source)
	assert.Empty(t, res.Songs)
	assert.Len(t, res.External, 2)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, searcher.calls)
}

func TestSearchNoExternalWithoutOptIn(t *testing.T) {
	svc, _, searcher, _ := newTestService("test")
	searcher.tracks = []song.ExternalSong{externalTrack("x")}

	res, err := svc.Search(context.Background(), song.SearchRequest{Query: "nothing here"})
	require.NoError(t, err)

	assert.Equal(t, song.SearchSourceLocal, res.Source)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, searcher.calls)
}

func TestSearchProviderFailureDegradesToEmpty(t *testing.T) {
	svc, _, searcher, _ := newTestService("test")
	searcher.err = errors.New("spotify is down")

	res, err := svc.Search(context.Background(), song.SearchRequest{Query: "anything", External: true})
	require.NoError(t, err)

	assert.Equal(t, song.SearchSourceExternal, res.Source)
	assert.Empty(t, res.External)
	assert.Equal(t, 0, res.Total)
}

func TestResolveOrCreateCreatesOnMiss(t *testing.T) {
	svc, repo, _, _ := newTestService("test")

	s, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)

	require.NotNil(t, s.ExternalID)
	assert.Equal(t, "track1", *s.ExternalID)
	require.NotNil(t, s.Source)
	assert.Equal(t, song.SourceSpotify, *s.Source)
	assert.Len(t, repo.songs, 1)

	// synthetic provider-prefixed id never leaks into the stored row
	assert.NotEqual(t, "spotify-track1", s.ID.String())
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	svc, repo, _, _ := newTestService("test")

	first, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)

	second, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.songs, 1)
}

func TestResolveOrCreateFirstWriteWins(t *testing.T) {
	svc, _, _, _ := newTestService("test")

	first, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)

	// same track again with fresher metadata; the stored row is untouched
	refreshed := externalTrack("track1")
	refreshed.Popularity = 99
	second, err := svc.ResolveOrCreate(context.Background(), refreshed)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Popularity)
	assert.Equal(t, 80, *second.Popularity)
}

func TestResolveOrCreateMatchesByTitleArtistAlbum(t *testing.T) {
	svc, repo, _, _ := newTestService("test")

	local, err := svc.Create(context.Background(), song.CreateSongRequest{
		Title:    "Starman",
		Artist:   "David Bowie",
		Album:    "The Rise and Fall of Ziggy Stardust",
		Duration: 256,
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)

	assert.Equal(t, local.ID, resolved.ID)
	assert.Len(t, repo.songs, 1)
}

// racingSongRepo makes every insert lose to a concurrent writer whose
// row only becomes visible once the constraint fires.
type racingSongRepo struct {
	*fakeSongRepo
	winner *song.Song
}

func (r *racingSongRepo) Create(_ context.Context, _ *song.Song) error {
	cp := *r.winner
	r.songs[r.winner.ID] = &cp
	return song.ErrDuplicateSong
}

func TestResolveOrCreateLostRaceReQueries(t *testing.T) {
	winner := externalTrack("track1").ToSong()
	repo := &racingSongRepo{fakeSongRepo: newFakeSongRepo(), winner: winner}
	svc := NewService(repo, &fakeSearcher{}, newMemCache(), "test")

	s, err := svc.ResolveOrCreate(context.Background(), externalTrack("track1"))
	require.NoError(t, err)
	assert.Equal(t, winner.ID, s.ID)
	assert.Len(t, repo.songs, 1)
}

func TestDeleteRefusesReferencedSong(t *testing.T) {
	svc, repo, _, _ := newTestService("test")
	s := seedSong(t, svc, "Kept", "Band")
	repo.referenced[s.ID] = true

	err := svc.Delete(context.Background(), s.ID)
	assert.ErrorIs(t, err, song.ErrSongInUse)

	repo.referenced[s.ID] = false
	assert.NoError(t, svc.Delete(context.Background(), s.ID))
}

func TestTrendingUsesCache(t *testing.T) {
	svc, repo, _, c := newTestService("test")
	seedSong(t, svc, "One", "A")

	first, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// serve from cache even after the repo content changes underneath
	extra := &song.Song{ID: uuid.New(), Title: "Two", Artist: "B", Duration: 100}
	repo.songs[extra.ID] = extra

	second, err := svc.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// a write invalidates the trending keys
	seedSong(t, svc, "Three", "C")
	assert.Empty(t, c.data)
}

func TestSeedRefusedInProduction(t *testing.T) {
	svc, _, _, _ := newTestService("production")

	_, err := svc.Seed(context.Background(), []song.CreateSongRequest{
		{Title: "t", Artist: "a", Duration: 100},
	})
	assert.ErrorIs(t, err, song.ErrSeedingForbidden)
}

func TestSeedCountsCreatedSongs(t *testing.T) {
	svc, repo, _, _ := newTestService("development")

	created, err := svc.Seed(context.Background(), []song.CreateSongRequest{
		{Title: "one", Artist: "a", Duration: 100},
		{Title: "two", Artist: "b", Duration: 120},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Len(t, repo.songs, 2)
}
