// Package handlers holds the gin endpoint surface. Handlers stay thin:
// bind, call the service, map the error class to a status.
package handlers

import (
	"errors"
	"net/http"

	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
)

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, pkgerrors.ErrExternalDependency):
		return http.StatusBadGateway, "EXTERNAL_DEPENDENCY"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
