package camera

import (
	"context"
	"github.com/myrjola/agrolens/internal/errors"
	"image"
	"image/color"
	"sync"
)

// FakeProvider is an in-memory Provider for tests and demo mode. It matches
// constraints against a fixed device list and serves synthetic frames.
type FakeProvider struct {
	// DeviceList is returned by Devices.
	DeviceList []Device
	// DevicesErr makes enumeration fail.
	DevicesErr error
	// FrameWidth and FrameHeight set the native resolution of served streams.
	// Zero values default to 640x480.
	FrameWidth  int
	FrameHeight int
}

func (p *FakeProvider) Devices(_ context.Context) ([]Device, error) {
	if p.DevicesErr != nil {
		return nil, p.DevicesErr
	}
	return p.DeviceList, nil
}

func (p *FakeProvider) Open(_ context.Context, constraint Constraint) (Stream, error) {
	device, ok := p.match(constraint)
	if !ok {
		return nil, errors.New("no device satisfies constraint")
	}
	width, height := p.FrameWidth, p.FrameHeight
	if width == 0 {
		width = 640
	}
	if height == 0 {
		height = 480
	}
	return &FakeStream{Device: device, width: width, height: height}, nil
}

func (p *FakeProvider) match(constraint Constraint) (Device, bool) {
	if constraint.DeviceID != "" {
		for _, device := range p.DeviceList {
			if device.ID == constraint.DeviceID {
				return device, true
			}
		}
		return Device{}, false
	}
	if constraint.Facing != "" {
		for _, device := range p.DeviceList {
			if device.Facing == constraint.Facing {
				return device, true
			}
		}
		if constraint.Exact {
			return Device{}, false
		}
		// Ideal facing degrades to any available device.
	}
	if len(p.DeviceList) == 0 {
		return Device{}, false
	}
	return p.DeviceList[0], true
}

// FakeStream serves a uniform green frame until stopped.
type FakeStream struct {
	Device Device

	width  int
	height int

	mu      sync.Mutex
	stopped bool
}

func (s *FakeStream) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, errors.New("stream is stopped")
	}
	frame := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	leafGreen := color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			frame.SetRGBA(x, y, leafGreen)
		}
	}
	return frame, nil
}

// Stop is idempotent.
func (s *FakeStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Stopped reports whether the stream has been stopped.
func (s *FakeStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
