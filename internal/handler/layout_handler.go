package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/service"
	"github.com/etell/placement-backend/pkg/response"
)

// LayoutHandler handles HTTP requests for floor layouts
type LayoutHandler struct {
	service *service.LayoutService
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(service *service.LayoutService) *LayoutHandler {
	return &LayoutHandler{service: service}
}

// BuildLayout handles POST /api/v1/sessions/:id/layout
func (h *LayoutHandler) BuildLayout(c *gin.Context) {
	layout, err := h.service.BuildFromSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to build layout", err)
		return
	}
	response.Created(c, layout)
}

// GetLayout handles GET /api/v1/layouts/:id
func (h *LayoutHandler) GetLayout(c *gin.Context) {
	layout, err := h.service.GetLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get layout", err)
		return
	}
	response.Success(c, layout)
}

// UpdateRoom handles PATCH /api/v1/layouts/:id/rooms/:roomId
func (h *LayoutHandler) UpdateRoom(c *gin.Context) {
	var update models.RoomUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, "Invalid room update", err)
		return
	}

	layout, err := h.service.UpdateRoom(c.Request.Context(), c.Param("id"), c.Param("roomId"), update)
	if err != nil {
		respondError(c, "Failed to update room", err)
		return
	}
	response.Success(c, layout)
}

// AnalyzeLayout handles POST /api/v1/layouts/:id/analysis
func (h *LayoutHandler) AnalyzeLayout(c *gin.Context) {
	record, err := h.service.AnalyzeLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to analyze layout", err)
		return
	}
	response.Created(c, record)
}
