package playlist

import "errors"

var (
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNotPlaylistOwner: the playlist exists but belongs to someone else.
	ErrNotPlaylistOwner = errors.New("you do not have permission to access this playlist")

	ErrMembershipNotFound = errors.New("song is not in the playlist")

	// ErrSongAlreadyInPlaylist is the repository-level unique violation on
	// (playlist_id, song_id). The service reports it as a soft outcome.
	ErrSongAlreadyInPlaylist = errors.New("song already exists in the playlist")
)
