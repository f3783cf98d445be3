package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/gin-gonic/gin"
)

// SapHandler serves the SAP B1 document mirror.
type SapHandler struct {
	service *masterdata.SapMirrorService
}

// NewSapHandler creates a new SapHandler
func NewSapHandler(service *masterdata.SapMirrorService) *SapHandler {
	return &SapHandler{service: service}
}

// RegisterRoutes registers SAP mirror routes
func (h *SapHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sap := rg.Group("/sap")
	{
		sap.POST("/it", h.RegisterTransfer)
		sap.GET("/it", h.ListTransfers)
		sap.POST("/po", h.RegisterPurchase)
		sap.GET("/po", h.ListPurchases)
	}
}

// RegisterTransfer mirrors one SAP inventory transfer
func (h *SapHandler) RegisterTransfer(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.RegisterSapTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	header, err := h.service.RegisterTransfer(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "SAP transfer registered", header)
}

// RegisterPurchase mirrors one SAP purchase order
func (h *SapHandler) RegisterPurchase(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.RegisterSapPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	header, err := h.service.RegisterPurchase(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "SAP purchase registered", header)
}

// ListTransfers returns mirrored SAP transfers matching the filter
func (h *SapHandler) ListTransfers(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	transfers, err := h.service.ListTransfers(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(transfers), transfers)
}

// ListPurchases returns mirrored SAP purchase orders matching the filter
func (h *SapHandler) ListPurchases(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	purchases, err := h.service.ListPurchases(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(purchases), purchases)
}
