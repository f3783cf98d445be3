package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// CountHandler serves physical count sheets.
type CountHandler struct {
	service *posting.CountService
}

// NewCountHandler creates a new CountHandler
func NewCountHandler(service *posting.CountService) *CountHandler {
	return &CountHandler{service: service}
}

// RegisterRoutes registers count routes
func (h *CountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	counts := rg.Group("/counts")
	{
		counts.POST("", h.Submit)
		counts.GET("", h.List)
		counts.GET("/:id", h.Get)
		counts.PUT("/:id/confirm", h.Confirm)
	}
}

// Submit records a count sheet for the actor's warehouse
func (h *CountHandler) Submit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.SubmitCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sheet, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Count submitted", sheet)
}

// Confirm posts the variance of a submitted count sheet
func (h *CountHandler) Confirm(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	sheet, err := h.service.Confirm(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Count confirmed", sheet)
}

// Get returns one count sheet with its rows
func (h *CountHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sheet, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", sheet)
}

// List returns count sheets matching the filter
func (h *CountHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	sheets, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(sheets), sheets)
}
