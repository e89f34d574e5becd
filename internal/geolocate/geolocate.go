// Package geolocate resolves the caller's position through a locator
// provider. The web front end receives coordinates from the browser; the CLI
// and bot fall back to IP-based lookup.
package geolocate

import (
	"context"
	"github.com/myrjola/agrolens/internal/errors"
)

// Position is a geographic coordinate pair.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Locator resolves the current position. Implementations map their native
// failure modes onto the sentinel errors below.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

var (
	// ErrPermissionDenied means the user or platform refused location access.
	ErrPermissionDenied = errors.NewSentinel("location permission denied")
	// ErrPositionUnavailable means the provider could not determine a position.
	ErrPositionUnavailable = errors.NewSentinel("position unavailable")
	// ErrTimeout means the position request did not complete in time.
	ErrTimeout = errors.NewSentinel("location request timed out")
	// ErrUnavailable covers every other location failure.
	ErrUnavailable = errors.NewSentinel("location unavailable")
)

// FakeLocator returns a fixed position or error.
type FakeLocator struct {
	Position Position
	Err      error
}

func (l FakeLocator) Locate(context.Context) (Position, error) {
	if l.Err != nil {
		return Position{}, l.Err
	}
	return l.Position, nil
}
