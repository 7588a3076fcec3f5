package fileops

import "errors"

var (
	// ErrInvalidPath is returned when an operation needs an existing path and it does not exist.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNoMatch is returned when a replace or inject must change a file but its pattern does not occur in it.
	ErrNoMatch = errors.New("pattern not found")

	// ErrAborted is returned when the operator aborts at a collision prompt. Callers should stop the whole run.
	ErrAborted = errors.New("aborted")
)
