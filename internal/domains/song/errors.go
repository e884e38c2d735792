package song

import "errors"

// Repository-level errors
var (
	ErrSongNotFound = errors.New("song not found")

	// ErrDuplicateSong is the unique-constraint violation on (source, external_id).
	// Reconciliation treats it as "another writer won the race".
	ErrDuplicateSong = errors.New("song with this external id already exists")

	// ErrSongInUse blocks deletion while a playlist still references the song.
	ErrSongInUse = errors.New("song is referenced by a playlist")
)

// Service-level errors
var (
	ErrSeedingForbidden = errors.New("seeding is not allowed in production")
)
