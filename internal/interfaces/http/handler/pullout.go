package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// PullOutHandler serves pull-out requests and their confirmations.
type PullOutHandler struct {
	service *posting.PullOutService
}

// NewPullOutHandler creates a new PullOutHandler
func NewPullOutHandler(service *posting.PullOutService) *PullOutHandler {
	return &PullOutHandler{service: service}
}

// RegisterRoutes registers pull-out routes
func (h *PullOutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pullouts := rg.Group("/pullouts")
	{
		pullouts.POST("", h.Submit)
		pullouts.GET("", h.List)
		pullouts.GET("/:id", h.Get)
		pullouts.PUT("/:id/confirm", h.Confirm)
	}
}

// Submit records a pull-out request for the actor's warehouse
func (h *PullOutHandler) Submit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.SubmitPullOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	request, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Pull-out request submitted", request)
}

// Confirm posts the stock movement of a pull-out request
func (h *PullOutHandler) Confirm(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	pullOut, err := h.service.Confirm(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Pull-out confirmed", pullOut)
}

// Get returns one pull-out request with its rows
func (h *PullOutHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	request, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", request)
}

// List returns pull-out requests matching the filter
func (h *PullOutHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	requests, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(requests), requests)
}
