package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves customers and advance-payment instruments.
type CustomerHandler struct {
	service *masterdata.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *masterdata.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// RegisterRoutes registers customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:code", h.Get)
		customers.PUT("/:code", h.Update)
		customers.GET("/:code/advances", h.ListAdvances)
	}

	rg.POST("/advances", h.CreateAdvance)
}

// Create registers a new customer
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Customer created", customer)
}

// Update updates mutable customer fields
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	customer, err := h.service.Update(c.Request.Context(), actor, c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Customer updated", customer)
}

// Get returns one customer by code
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", customer)
}

// List returns customers matching the filter
func (h *CustomerHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	customers, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(customers), customers)
}

// CreateAdvance registers a prepaid instrument for a customer
func (h *CustomerHandler) CreateAdvance(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	advance, err := h.service.CreateAdvance(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Advance payment created", advance)
}

// ListAdvances returns a customer's advance payments
func (h *CustomerHandler) ListAdvances(c *gin.Context) {
	advances, err := h.service.ListAdvances(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(advances), advances)
}
