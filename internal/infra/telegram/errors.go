package telegram

import (
	"errors"
	"fmt"
)

// APIError is a non-rate-limit rejection from the messaging backend. It is
// never retried; callers get the backend's status and body verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API request failed with status %d: %s", e.Status, e.Body)
}

// RetriesExhaustedError is the terminal outcome of a delivery whose every
// attempt was rate limited.
type RetriesExhaustedError struct {
	Attempts int
	LastBody string
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("exceeded maximum of %d attempts against telegram API, last error: %s", e.Attempts, e.LastBody)
}

// IsRetriesExhausted reports whether err is a terminal exhausted-retries
// outcome.
func IsRetriesExhausted(err error) bool {
	var exhausted *RetriesExhaustedError
	return errors.As(err, &exhausted)
}
