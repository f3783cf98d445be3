package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BranchHandler serves branch and warehouse administration.
type BranchHandler struct {
	service *masterdata.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(service *masterdata.BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

// RegisterRoutes registers branch and warehouse routes
func (h *BranchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	branches := rg.Group("/branches")
	{
		branches.POST("", middleware.RequireCapability(identity.CapAdmin), h.CreateBranch)
		branches.GET("", h.ListBranches)
	}

	warehouses := rg.Group("/warehouses")
	{
		warehouses.POST("", middleware.RequireCapability(identity.CapAdmin), h.CreateWarehouse)
		warehouses.GET("", h.ListWarehouses)
		warehouses.GET("/:code", h.GetWarehouse)
		warehouses.PUT("/:code", middleware.RequireCapability(identity.CapAdmin), h.UpdateWarehouse)
		warehouses.PUT("/:code/cutoff", h.SetCutoff)
	}
}

// CreateBranch registers a new branch
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	branch, err := h.service.CreateBranch(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Branch created", branch)
}

// ListBranches returns branches matching the filter
func (h *BranchHandler) ListBranches(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	branches, err := h.service.ListBranches(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(branches), branches)
}

// CreateWarehouse registers a new warehouse under a branch
func (h *BranchHandler) CreateWarehouse(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	warehouse, err := h.service.CreateWarehouse(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Warehouse created", warehouse)
}

// ListWarehouses returns warehouses matching the filter
func (h *BranchHandler) ListWarehouses(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	warehouses, err := h.service.ListWarehouses(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(warehouses), warehouses)
}

// GetWarehouse returns one warehouse by code
func (h *BranchHandler) GetWarehouse(c *gin.Context) {
	warehouse, err := h.service.GetWarehouse(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", warehouse)
}

// UpdateWarehouse updates mutable warehouse fields
func (h *BranchHandler) UpdateWarehouse(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	warehouse, err := h.service.UpdateWarehouse(c.Request.Context(), actor, c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Warehouse updated", warehouse)
}

type setCutoffRequest struct {
	On bool `json:"on"`
}

// SetCutoff toggles the counting cutoff on a warehouse
func (h *BranchHandler) SetCutoff(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req setCutoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	warehouse, err := h.service.SetCutoff(c.Request.Context(), actor, c.Param("code"), req.On)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cutoff updated", warehouse)
}
