package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etell/placement-backend/internal/analysis/placement"
	"github.com/etell/placement-backend/internal/repository"
	"github.com/etell/placement-backend/internal/service"
	"github.com/etell/placement-backend/pkg/response"
)

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, fallback string, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		response.NotFound(c, "Session not found", err)
	case errors.Is(err, repository.ErrLayoutNotFound):
		response.NotFound(c, "Layout not found", err)
	case errors.Is(err, repository.ErrRoomNotFound):
		response.NotFound(c, "Room not found", err)
	case errors.Is(err, repository.ErrResultNotFound):
		response.NotFound(c, "Analysis result not found", err)
	case errors.Is(err, service.ErrSessionEnded):
		response.Error(c, http.StatusConflict, "Session has ended", err)
	case errors.Is(err, service.ErrInvalidSample):
		response.BadRequest(c, "Invalid sample", err)
	case errors.Is(err, service.ErrInvalidRoomUpdate):
		response.BadRequest(c, "Invalid room update", err)
	case errors.Is(err, placement.ErrInsufficientData):
		response.Error(c, http.StatusUnprocessableEntity, "At least 3 samples are required", err)
	default:
		response.InternalError(c, fallback, err)
	}
}
