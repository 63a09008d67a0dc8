package repository

import "errors"

var (
	// ErrSessionNotFound is returned when a session ID does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionEnded is returned when ending a session that already has an end time
	ErrSessionEnded = errors.New("session has ended")

	// ErrLayoutNotFound is returned when a layout ID does not exist
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRoomNotFound is returned when a room ID does not exist in the layout
	ErrRoomNotFound = errors.New("room not found")

	// ErrResultNotFound is returned when an analysis result ID does not exist
	ErrResultNotFound = errors.New("analysis result not found")
)
