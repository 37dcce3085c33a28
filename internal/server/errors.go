package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/jobfiltr/internal/filters"
	"github.com/jonathan/jobfiltr/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a route whose backing service is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		unavailable   *ErrUnavailable
		schemaErr     *schemas.ValidationError
		loadErr       *schemas.SchemaLoadError
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case errors.Is(err, filters.ErrTierLimit), errors.Is(err, filters.ErrProRequired):
		return http.StatusForbidden
	case errors.Is(err, filters.ErrEmptyValue), errors.Is(err, filters.ErrInvalidMatchMode):
		return http.StatusBadRequest
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &loadErr):
		// schemas are embedded, so a load failure means the document is not JSON
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
