package dto

import (
	"errors"
	"net/http"

	"github.com/bakehouse/backend/internal/domain/shared"
)

// The status convention is deliberately coarse for POS client
// compatibility: 200 on success, 401 for every rejected request the
// caller can act on (authorization, validation, business rules), 500
// for storage and other unexpected failures.

// storageErrorMessage hides driver details from clients.
const storageErrorMessage = "Something is wrong with your data. Please verify with admin."

// HTTPStatus returns the status code for an error.
func HTTPStatus(err error) int {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// ErrorMessage returns the client-facing message for an error. Domain
// errors pass their message through; anything else is masked.
func ErrorMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return storageErrorMessage
}
