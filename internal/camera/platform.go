package camera

import "context"

type unsupportedProvider struct{}

func (unsupportedProvider) Devices(context.Context) ([]Device, error) {
	return nil, ErrNotSupported
}

func (unsupportedProvider) Open(context.Context, Constraint) (Stream, error) {
	return nil, ErrNotSupported
}

// Platform returns the camera provider for the current platform. Hardware
// backends plug in here; without one, enumeration reports no devices and
// acquisition fails with ErrNoCamera as callers expect.
func Platform() Provider {
	return unsupportedProvider{}
}
