package service

import (
	"errors"

	"github.com/etell/placement-backend/internal/repository"
)

var (
	// ErrSessionEnded is returned when adding samples to, or ending, a completed session
	ErrSessionEnded = repository.ErrSessionEnded

	// ErrInvalidSample is returned when a sample fails validation
	ErrInvalidSample = errors.New("invalid sample")

	// ErrInvalidRoomUpdate is returned when a room edit would break layout constraints
	ErrInvalidRoomUpdate = errors.New("invalid room update")
)
