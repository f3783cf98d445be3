package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// SalesHandler serves sales invoices.
type SalesHandler struct {
	service *posting.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *posting.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.Get)
		sales.PUT("/:id/cancel", h.Cancel)
		sales.PUT("/:id/sap-number", h.StampSapNumber)
	}
}

// Create posts a new sale
func (h *SalesHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.CreateSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	sale, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Sale posted", sale)
}

// Cancel voids a sale
func (h *SalesHandler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	sale, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Sale canceled", sale)
}

// StampSapNumber records the SAP document number on a sale
func (h *SalesHandler) StampSapNumber(c *gin.Context) {
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

	sale, err := h.service.StampSapNumber(c.Request.Context(), actor, id, req.SapNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "SAP number stamped", sale)
}

// Get returns one sale with its lines
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", sale)
}

// List returns sales matching the filter
func (h *SalesHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	sales, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(sales), sales)
}
