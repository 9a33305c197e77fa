package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dafibh/tripsplit/tripsplit-backend/internal/domain"
	"github.com/dafibh/tripsplit/tripsplit-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://tripsplit.app/errors/validation"
	ErrorTypeNotFound    = "https://tripsplit.app/errors/not-found"
	ErrorTypeConflict    = "https://tripsplit.app/errors/conflict"
	ErrorTypeUnavailable = "https://tripsplit.app/errors/unavailable"
	ErrorTypeInternal    = "https://tripsplit.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
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
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// parseIDParam reads a positive int32 path parameter
func parseIDParam(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func invalidIDError(c echo.Context, name string) error {
	return NewValidationError(c, "Invalid path parameter", []ValidationError{
		{Field: name, Message: "Must be a positive integer"},
	})
}

func fieldError(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{
		{Field: field, Message: message},
	})
}

// handleServiceError maps domain and service errors to problem responses.
// action is used in the log line and the internal error detail.
func handleServiceError(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrTripNotFound):
		return NewNotFoundError(c, "Trip not found")
	case errors.Is(err, domain.ErrMemberNotFound):
		return NewNotFoundError(c, "Member not found")
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, service.ErrNoReceipt):
		return NewNotFoundError(c, "Expense has no receipt")

	case errors.Is(err, domain.ErrNameRequired):
		return fieldError(c, "name", "Name is required")
	case errors.Is(err, domain.ErrNameTooLong):
		return fieldError(c, "name", "Name must be 255 characters or less")
	case errors.Is(err, domain.ErrInvalidCurrency):
		return fieldError(c, "currency", "Currency must be a 3-letter code")
	case errors.Is(err, domain.ErrInvalidAmount):
		return fieldError(c, "amount", "Amount must be positive with at most 2 decimal places")
	case errors.Is(err, domain.ErrPayerNotMember):
		return fieldError(c, "payerId", "Payer must be a member of the trip")
	case errors.Is(err, domain.ErrInvalidSplit):
		return fieldError(c, "splits", err.Error())
	case errors.Is(err, domain.ErrSelfRepayment):
		return fieldError(c, "toMemberId", "Repayment must be between two different members")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)

	case errors.Is(err, service.ErrImageTooLarge):
		return fieldError(c, "file", "File too large. Maximum size is 5MB")
	case errors.Is(err, service.ErrInvalidFormat):
		return fieldError(c, "file", "Invalid format. Supported: JPEG, PNG, GIF")
	case errors.Is(err, service.ErrImageTooSmall):
		return fieldError(c, "file", "Image too small. Minimum 50x50 pixels")
	case errors.Is(err, service.ErrInvalidImageData):
		return fieldError(c, "file", "Invalid image data")

	case errors.Is(err, domain.ErrMemberNameTaken):
		return NewConflictError(c, "A member with this name already exists in the trip")
	case errors.Is(err, domain.ErrMemberHasActivity):
		return NewConflictError(c, "Member has expenses or splits and cannot be removed")
	case errors.Is(err, domain.ErrUnbalancedLedger):
		return NewConflictError(c, "Member balances do not sum to zero")

	case errors.Is(err, service.ErrStorageDisabled):
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msgf("Failed to %s", action)
	return NewInternalError(c, "Failed to "+action)
}
