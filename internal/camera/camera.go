// Package camera acquires video streams from a capability provider and
// captures still frames for disease detection. Providers abstract the
// platform's camera access so the negotiation logic can be exercised with a
// fake provider in tests.
package camera

import (
	"context"
	"github.com/myrjola/agrolens/internal/errors"
	"image"
)

// Facing is the desired camera orientation.
type Facing string

const (
	// FacingEnvironment is the rear camera.
	FacingEnvironment Facing = "environment"
	// FacingUser is the front camera.
	FacingUser Facing = "user"
)

// Opposite returns the other facing value.
func (f Facing) Opposite() Facing {
	if f == FacingEnvironment {
		return FacingUser
	}
	return FacingEnvironment
}

// Device describes an available video input device.
type Device struct {
	ID     string
	Label  string
	Facing Facing
}

// Constraint describes a single acquisition attempt. An empty field matches
// any device. Exact requires the facing to match instead of being a
// preference.
type Constraint struct {
	DeviceID string
	Facing   Facing
	Exact    bool
}

// Stream is a live video stream. Stop must be safe to call more than once.
type Stream interface {
	// Frame returns the current frame at the stream's native resolution.
	Frame() (image.Image, error)
	Stop()
}

// Provider gives access to the platform's video input devices.
type Provider interface {
	Devices(ctx context.Context) ([]Device, error)
	Open(ctx context.Context, constraint Constraint) (Stream, error)
}

var (
	// ErrNoCamera means every acquisition attempt failed or the platform has
	// no camera support at all.
	ErrNoCamera = errors.NewSentinel("no camera available")
	// ErrCaptureFailed means the frame surface could not be obtained.
	ErrCaptureFailed = errors.NewSentinel("capture failed")
	// ErrNotSupported is returned by providers on platforms without camera
	// support.
	ErrNotSupported = errors.NewSentinel("camera not supported on this platform")
)

// Capture is a still frame encoded as a JPEG image, ready to be submitted for
// detection.
type Capture struct {
	Data        []byte
	Filename    string
	ContentType string
}
