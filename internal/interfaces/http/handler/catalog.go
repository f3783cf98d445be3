package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves items, units of measure and price lists.
type CatalogHandler struct {
	service *masterdata.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *masterdata.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireCapability(identity.CapAdmin)

	items := rg.Group("/items")
	{
		items.POST("", admin, h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:code", h.GetItem)
		items.PUT("/:code", admin, h.UpdateItem)
	}

	uoms := rg.Group("/uoms")
	{
		uoms.POST("", admin, h.CreateUoM)
		uoms.GET("", h.ListUoMs)
	}

	priceLists := rg.Group("/price-lists")
	{
		priceLists.POST("", admin, h.CreatePriceList)
		priceLists.GET("", h.ListPriceLists)
		priceLists.PUT("/:id/prices", admin, h.SetPrice)
		priceLists.GET("/:id/prices/:item", h.GetPrice)
	}
}

// CreateItem registers a new catalog item
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Item created", item)
}

// UpdateItem updates mutable item fields
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), actor, c.Param("code"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Item updated", item)
}

// GetItem returns one item by code
func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", item)
}

// ListItems returns items matching the filter
func (h *CatalogHandler) ListItems(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListItems(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(items), items)
}

// CreateUoM registers a new unit of measure
func (h *CatalogHandler) CreateUoM(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateUoMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	uom, err := h.service.CreateUoM(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Unit of measure created", uom)
}

// ListUoMs returns every unit of measure
func (h *CatalogHandler) ListUoMs(c *gin.Context) {
	uoms, err := h.service.ListUoMs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(uoms), uoms)
}

// CreatePriceList registers a new price list
func (h *CatalogHandler) CreatePriceList(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreatePriceListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	list, err := h.service.CreatePriceList(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Price list created", list)
}

// ListPriceLists returns price lists matching the filter
func (h *CatalogHandler) ListPriceLists(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	lists, err := h.service.ListPriceLists(c.Request.Context(), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(lists), lists)
}

// SetPrice assigns an item's price within a list
func (h *CatalogHandler) SetPrice(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req masterdata.SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.service.SetPrice(c.Request.Context(), actor, id, req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Price set", nil)
}

// GetPrice returns one item's price within a list
func (h *CatalogHandler) GetPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	price, err := h.service.PriceFor(c.Request.Context(), id, c.Param("item"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", gin.H{"item_code": c.Param("item"), "price": price})
}
