// Package locate models the geolocation capability used before a search.
package locate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/lunchroulette/internal/domain/model"
)

// Failure kinds. Each maps to its own user-visible status message.
var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrTimeout          = errors.New("geolocation timed out")
	ErrUnsupported      = errors.New("geolocation not supported")
	ErrUnavailable      = errors.New("geolocation position unavailable")
)

// Browser failure codes, as reported by the UI.
const (
	CodePermissionDenied = "permission_denied"
	CodeTimeout          = "timeout"
	CodeUnsupported      = "unsupported"
	CodeUnavailable      = "unavailable"
)

// Locator resolves the caller's position.
type Locator interface {
	Locate(ctx context.Context) (model.LatLng, error)
}

// Func adapts a function to Locator.
type Func func(ctx context.Context) (model.LatLng, error)

// Locate calls f.
func (f Func) Locate(ctx context.Context) (model.LatLng, error) { return f(ctx) }

// Static always returns the same position.
type Static struct {
	Position model.LatLng
}

// NewStatic creates a locator fixed at lat/lng.
func NewStatic(lat, lng float64) *Static {
	return &Static{Position: model.LatLng{Latitude: lat, Longitude: lng}}
}

// Locate returns the fixed position once it validates.
func (s *Static) Locate(ctx context.Context) (model.LatLng, error) {
	if err := ctx.Err(); err != nil {
		return model.LatLng{}, err
	}
	if err := s.Position.Validate(); err != nil {
		return model.LatLng{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return s.Position, nil
}

// Failed is a locator that reports a failure the browser already observed.
type Failed struct {
	Err error
}

// Locate returns the stored error.
func (f Failed) Locate(context.Context) (model.LatLng, error) {
	return model.LatLng{}, f.Err
}

// FromCode maps a browser failure code to its error kind.
// Unknown codes are treated as an unavailable position.
func FromCode(code string) error {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case CodePermissionDenied, "1":
		return ErrPermissionDenied
	case CodeTimeout, "3":
		return ErrTimeout
	case CodeUnsupported:
		return ErrUnsupported
	default:
		return ErrUnavailable
	}
}

// Within bounds l by d. A locator still running after d yields ErrTimeout.
func Within(l Locator, d time.Duration) Locator {
	if d <= 0 {
		return l
	}
	return Func(func(ctx context.Context) (model.LatLng, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		pos, err := l.Locate(ctx)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			return model.LatLng{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return pos, err
	})
}
