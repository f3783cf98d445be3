package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// sapNumberRequest carries the SAP document number stamped on a posted
// document.
type sapNumberRequest struct {
	SapNumber string `json:"sap_number" binding:"required,max=32"`
}

// TransferHandler serves outbound stock transfers.
type TransferHandler struct {
	service *posting.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(service *posting.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.Create)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.Get)
		transfers.PUT("/:id/cancel", h.Cancel)
		transfers.PUT("/:id/sap-number", h.StampSapNumber)
	}
}

// Create posts a new transfer
func (h *TransferHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	transfer, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Transfer posted", transfer)
}

// Cancel voids a transfer
func (h *TransferHandler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	transfer, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Transfer canceled", transfer)
}

// StampSapNumber records the SAP document number on a transfer
func (h *TransferHandler) StampSapNumber(c *gin.Context) {
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

	transfer, err := h.service.StampSapNumber(c.Request.Context(), actor, id, req.SapNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "SAP number stamped", transfer)
}

// Get returns one transfer with its lines
func (h *TransferHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	transfer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", transfer)
}

// List returns transfers matching the filter
func (h *TransferHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	transfers, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(transfers), transfers)
}
