package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SeriesHandler serves object types and numbering series.
type SeriesHandler struct {
	service *masterdata.SeriesService
}

// NewSeriesHandler creates a new SeriesHandler
func NewSeriesHandler(service *masterdata.SeriesService) *SeriesHandler {
	return &SeriesHandler{service: service}
}

// RegisterRoutes registers series routes
func (h *SeriesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/object-types", h.ListObjectTypes)

	series := rg.Group("/series")
	{
		series.POST("", middleware.RequireCapability(identity.CapAdmin), h.Create)
		series.GET("", h.List)
		series.PUT("/:warehouse/:object", middleware.RequireCapability(identity.CapAdmin), h.Extend)
	}
}

// ListObjectTypes returns the document type registry
func (h *SeriesHandler) ListObjectTypes(c *gin.Context) {
	types, err := h.service.ListObjectTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(types), types)
}

// Create registers a numbering series for a warehouse and object type
func (h *SeriesHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	series, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Series created", series)
}

// Extend raises the upper bound of an existing series
func (h *SeriesHandler) Extend(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.ExtendSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	series, err := h.service.Extend(c.Request.Context(), actor, c.Param("warehouse"), c.Param("object"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Series extended", series)
}

// List returns series matching the filter
func (h *SeriesHandler) List(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(list), list)
}
