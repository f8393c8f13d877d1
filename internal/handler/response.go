package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/dafibh/fortuna/fortuna-admin/internal/api"
	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   []domain.FieldError `json:"errors,omitempty"`
}

// Error types
const (
	ErrorTypeValidation   = "https://fortuna.app/errors/validation"
	ErrorTypeNotFound     = "https://fortuna.app/errors/not-found"
	ErrorTypeUnauthorized = "https://fortuna.app/errors/unauthorized"
	ErrorTypeConflict     = "https://fortuna.app/errors/conflict"
	ErrorTypeBadGateway   = "https://fortuna.app/errors/bad-gateway"
	ErrorTypeInternal     = "https://fortuna.app/errors/internal"
)

func problem(c echo.Context, status int, errorType, title, detail string) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []domain.FieldError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", detail)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", detail)
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return problem(c, http.StatusConflict, ErrorTypeConflict, "Conflict", detail)
}

// NewBadGatewayError reports a failed call to the finance backend. detail
// is the message the page shows.
func NewBadGatewayError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadGateway, ErrorTypeBadGateway, "Backend Error", detail)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", detail)
}

// respondError maps a page operation failure to a problem response
func respondError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	var httpErr *api.HTTPError

	switch {
	case errors.As(err, &verr):
		return NewValidationError(c, "Validation failed", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Record not found")
	case errors.Is(err, domain.ErrBusy):
		return NewConflictError(c, "Another request for this page is in progress")
	case errors.Is(err, domain.ErrNotEditing):
		return NewConflictError(c, "No form is open")
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return NewValidationError(c, "Confirmation does not match", []domain.FieldError{
			{Field: "confirm", Message: "must equal the record name"},
		})
	case errors.Is(err, domain.ErrInvalidFilter):
		return NewValidationError(c, "Invalid filter", nil)
	case errors.As(err, &httpErr):
		log.Warn().Err(err).Int("status", httpErr.Status).Msg("Backend request failed")
		return NewBadGatewayError(c, api.UserMessage(err, api.GenericErrorMessage))
	case errors.Is(err, context.DeadlineExceeded):
		return NewBadGatewayError(c, api.GenericErrorMessage)
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Page operation failed")
		return NewInternalError(c, "An unexpected error occurred")
	}
}
