package repositories

import "errors"

var (
	// ErrNotFound indicates no row matched the requested identifier.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a write collided with an existing row, such as a
	// duplicate username or a video already present in a playlist.
	ErrConflict = errors.New("conflict")
)
