package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// AdjustmentHandler serves manual stock adjustments.
type AdjustmentHandler struct {
	service *posting.AdjustmentService
}

// NewAdjustmentHandler creates a new AdjustmentHandler
func NewAdjustmentHandler(service *posting.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{service: service}
}

// RegisterRoutes registers adjustment routes
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	adjustments := rg.Group("/adjustments")
	{
		adjustments.POST("", h.Create)
		adjustments.GET("", h.List)
		adjustments.GET("/:id", h.Get)
		adjustments.PUT("/:id/cancel", h.Cancel)
	}
}

// Create posts a new adjustment
func (h *AdjustmentHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	adj, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Adjustment posted", adj)
}

// Cancel voids an adjustment
func (h *AdjustmentHandler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	adj, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Adjustment canceled", adj)
}

// Get returns one adjustment with its lines
func (h *AdjustmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	adj, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", adj)
}

// List returns adjustments matching the filter
func (h *AdjustmentHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	adjustments, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(adjustments), adjustments)
}
