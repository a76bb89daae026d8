package core

import (
	"errors"
	"fmt"
)

var ErrMissingAPIKey = errors.New("no API key configured")

// FetchError is returned when the report API answers with a non-success
// status. The pipeline does not run for a failed fetch.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("report API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("report API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Hint returns an operator-facing suggestion for the failure.
func (e *FetchError) Hint() string {
	switch e.StatusCode {
	case 401, 403:
		return "check the API key"
	case 429:
		return "rate limited, try again shortly"
	case 400:
		return "check the date range"
	default:
		if e.StatusCode >= 500 {
			return "report API is unavailable"
		}
		return ""
	}
}
