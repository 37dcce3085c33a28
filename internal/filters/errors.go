package filters

import (
	"errors"
	"fmt"
)

var (
	// ErrTierLimit is matched by every TierLimitError.
	ErrTierLimit = errors.New("free tier limit reached")
	// ErrProRequired is matched by every ProRequiredError.
	ErrProRequired = errors.New("pro required")
	// ErrEmptyValue is returned when adding a blank keyword or company.
	ErrEmptyValue = errors.New("value must not be empty")
)

// TierLimitError is returned when a free-tier user tries to grow a list past its limit.
type TierLimitError struct {
	Feature string
	Limit   int
}

func (e *TierLimitError) Error() string {
	return fmt.Sprintf("Free limit: %d %s. Upgrade for unlimited.", e.Limit, e.Feature)
}

// Is reports whether target is ErrTierLimit.
func (e *TierLimitError) Is(target error) bool {
	return target == ErrTierLimit
}

// ProRequiredError is returned when a free-tier user calls a pro-only operation.
type ProRequiredError struct {
	Feature string
}

func (e *ProRequiredError) Error() string {
	return "Pro required"
}

// Is reports whether target is ErrProRequired.
func (e *ProRequiredError) Is(target error) bool {
	return target == ErrProRequired
}

// Error wraps settings store failures raised while editing a list.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
