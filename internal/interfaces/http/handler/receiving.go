package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// ReceivingHandler serves inbound stock receivings.
type ReceivingHandler struct {
	service *posting.ReceivingService
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(service *posting.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{service: service}
}

// RegisterRoutes registers receiving routes
func (h *ReceivingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receivings := rg.Group("/receivings")
	{
		receivings.POST("", h.Create)
		receivings.GET("", h.List)
		receivings.GET("/:id", h.Get)
		receivings.PUT("/:id/cancel", h.Cancel)
		receivings.PUT("/:id/sap-number", h.StampSapNumber)
	}
}

// Create posts a new receiving
func (h *ReceivingHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.CreateReceivingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rcv, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Receiving posted", rcv)
}

// Cancel voids a receiving
func (h *ReceivingHandler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	rcv, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Receiving canceled", rcv)
}

// StampSapNumber records the SAP document number on a receiving
func (h *ReceivingHandler) StampSapNumber(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req sapNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	rcv, err := h.service.StampSapNumber(c.Request.Context(), actor, id, req.SapNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "SAP number stamped", rcv)
}

// Get returns one receiving with its lines
func (h *ReceivingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rcv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", rcv)
}

// List returns receivings matching the filter
func (h *ReceivingHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	receivings, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(receivings), receivings)
}
