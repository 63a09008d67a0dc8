package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/service"
	"github.com/etell/placement-backend/pkg/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// SessionHandler handles HTTP requests for calibration sessions and placement analysis
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body", err)
			return
		}
	}

	session, err := h.service.CreateSession(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, "Failed to create session", err)
		return
	}
	response.Created(c, session)
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	sessions, total, err := h.service.ListSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to list sessions", err)
		return
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       sessions,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get session", err)
		return
	}
	response.Success(c, session)
}

// AddSample handles POST /api/v1/sessions/:id/samples
func (h *SessionHandler) AddSample(c *gin.Context) {
	var input models.SampleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid sample", err)
		return
	}

	sample, err := h.service.AddSample(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, "Failed to add sample", err)
		return
	}
	response.Created(c, sample)
}

// EndSession handles POST /api/v1/sessions/:id/end
func (h *SessionHandler) EndSession(c *gin.Context) {
	session, err := h.service.EndSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to end session", err)
		return
	}
	response.Success(c, session)
}

// AnalyzePlacement handles POST /api/v1/sessions/:id/analysis
func (h *SessionHandler) AnalyzePlacement(c *gin.Context) {
	record, err := h.service.AnalyzePlacement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to analyze placement", err)
		return
	}
	response.Created(c, record)
}

// GetAnalysis handles GET /api/v1/analysis/:id
func (h *SessionHandler) GetAnalysis(c *gin.Context) {
	record, err := h.service.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get analysis result", err)
		return
	}
	response.Success(c, record)
}
