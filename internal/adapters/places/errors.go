package places

import (
	"errors"
	"fmt"
)

// Sentinel kinds for places errors.
var (
	ErrMissingAPIKey = errors.New("places api key is not configured")
	ErrRequest       = errors.New("places request failed")
	ErrDecode        = errors.New("places response could not be decoded")
	ErrAPI           = errors.New("places api error")
	ErrNoPhoto       = errors.New("places photo has no uri")
)

// APIError is a non-2xx answer from the Places API.
type APIError struct {
	StatusCode int    `json:"-"` // HTTP status
	Code       int    `json:"code"`
	Status     string `json:"status"` // e.g. INVALID_ARGUMENT, PERMISSION_DENIED
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("places api: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("places api: status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrAPI) match any APIError.
func (e *APIError) Is(target error) bool { return target == ErrAPI }
