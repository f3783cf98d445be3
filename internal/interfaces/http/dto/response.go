// Package dto defines the wire envelope shared by every endpoint.
package dto

import (
	"github.com/bakehouse/backend/internal/domain/shared"
)

// Response is the envelope every endpoint returns. Token is only set by
// the auth endpoints; Count mirrors len(Data) on list responses so
// clients can skip counting client-side.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
	Token   interface{} `json:"token,omitempty"`
}

// NewSuccessResponse creates a success envelope around one object
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Count:   1,
		Data:    data,
	}
}

// NewListResponse creates a success envelope with an explicit count
func NewListResponse(message string, count int, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Count:   count,
		Data:    data,
	}
}

// NewTokenResponse creates a success envelope carrying a token payload
func NewTokenResponse(message string, data, token interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Count:   1,
		Data:    data,
		Token:   token,
	}
}

// NewErrorResponse creates a failure envelope
func NewErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// Filter converts the request into a repository filter
func (r ListRequest) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.PageSize > 0 {
		f.PageSize = r.PageSize
	}
	if r.OrderBy != "" {
		f.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		f.OrderDir = r.OrderDir
	}
	f.Search = r.Search
	return f
}
