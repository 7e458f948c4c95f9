package chatapi

import "fmt"

// ErrMalformedResponse is returned when the body is not the expected JSON shape.
var ErrMalformedResponse = fmt.Errorf("malformed chat response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("API error (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Detail)
}
