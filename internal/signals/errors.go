package signals

import "fmt"

// LoadError represents a failure to read, parse or compile signal tables.
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signal tables: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("signal tables: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
