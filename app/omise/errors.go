package omise

import (
	"errors"
	"fmt"
)

const codeNotFound = "not_found"

// APIError is a structured provider error: the decoded body of a non-2xx
// response, or a transport-level failure with an empty code.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("omise: request failed: status=%d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("omise: %s (code: %s)", e.Message, e.Code)
}

// IsNotFound reports whether err is a provider not-found error, the one
// error class callers are allowed to recover from.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == codeNotFound
}
