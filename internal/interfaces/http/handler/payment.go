package handler

import (
	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves incoming payments against sales.
type PaymentHandler struct {
	service *posting.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *posting.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Create)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.PUT("/:id/cancel", h.Cancel)
	}
}

// Create applies a payment to a sale
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req posting.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	payment, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Payment posted", payment)
}

// Cancel voids a payment, restoring the sale's open amount
func (h *PaymentHandler) Cancel(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	payment, err := h.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Payment canceled", payment)
}

// Get returns one payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", payment)
}

// List returns payments matching the filter
func (h *PaymentHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	payments, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(payments), payments)
}
