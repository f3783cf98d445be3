// Package handler wires the application services to gin routes. Every
// endpoint answers with the dto envelope; handlers never reach past the
// application layer.
package handler

import (
	"net/http"

	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/interfaces/http/dto"
	"github.com/bakehouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(message, data))
}

func respondList(c *gin.Context, message string, count int, data interface{}) {
	c.JSON(http.StatusOK, dto.NewListResponse(message, count, data))
}

func respondError(c *gin.Context, err error) {
	c.JSON(dto.HTTPStatus(err), dto.NewErrorResponse(dto.ErrorMessage(err)))
}

func respondBadRequest(c *gin.Context, err error) {
	// Binding failures ride the same coarse status as business-rule
	// rejections
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid request: "+err.Error()))
}

// actorFrom pulls the authenticated actor set by the JWT middleware.
func actorFrom(c *gin.Context) (identity.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return identity.Actor{}, false
	}
	return actor, true
}

// parseID parses the :id path parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid document id"))
		return uuid.Nil, false
	}
	return id, true
}

// listFilter binds pagination query params, falling back to defaults.
func listFilter(c *gin.Context) (dto.ListRequest, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, err)
		return req, false
	}
	return req, true
}
