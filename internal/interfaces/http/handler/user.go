package handler

import (
	"github.com/bakehouse/backend/internal/application/masterdata"
	"github.com/gin-gonic/gin"
)

// UserHandler serves user administration. The service enforces that
// only admins touch other accounts.
type UserHandler struct {
	service *masterdata.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service *masterdata.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:username", h.Get)
		users.PUT("/:username", h.Update)
	}
}

// Create registers a new user account
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "User created", user)
}

// Update updates an existing user account
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req masterdata.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.service.Update(c.Request.Context(), actor, c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "User updated", user)
}

// Get returns one user by username
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	user, err := h.service.Get(c.Request.Context(), actor, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", user)
}

// List returns users matching the filter
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	req, ok := listFilter(c)
	if !ok {
		return
	}
	users, err := h.service.List(c.Request.Context(), actor, req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(users), users)
}
