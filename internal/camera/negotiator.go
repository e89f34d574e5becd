package camera

import (
	"bytes"
	"context"
	"fmt"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/random"
	"image/jpeg"
	"log/slog"
	"time"
)

// settleDelay gives the device layer time to release a stream before the next
// open. Reopening immediately after a close can race against the release.
const settleDelay = 100 * time.Millisecond

const jpegQuality = 90

// Preference expresses which camera the caller would like to use. Both fields
// are optional.
type Preference struct {
	DeviceID string
	Facing   Facing
}

// Negotiator opens camera streams with graceful constraint fallback and
// captures still frames from them.
type Negotiator struct {
	provider Provider
	logger   *slog.Logger
	sleep    func(time.Duration)
}

// New creates a Negotiator on top of the given provider. A nil provider is
// treated as a platform without camera support.
func New(provider Provider, logger *slog.Logger) *Negotiator {
	return &Negotiator{
		provider: provider,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// List enumerates the available video input devices. It never fails:
// enumeration errors degrade to an empty list.
func (n *Negotiator) List(ctx context.Context) []Device {
	if n.provider == nil {
		return nil
	}
	devices, err := n.provider.Devices(ctx)
	if err != nil {
		n.logger.LogAttrs(ctx, slog.LevelDebug, "camera enumeration failed", errors.SlogError(err))
		return nil
	}
	return devices
}

// Open acquires a stream matching the preference, degrading through the
// constraint ladder: exact device id, exact facing, ideal facing, any camera.
// It fails with ErrNoCamera only when every attempt fails or the platform has
// no camera support.
func (n *Negotiator) Open(ctx context.Context, pref Preference) (Stream, error) {
	if n.provider == nil {
		return nil, errors.New("platform lacks camera support").Wrap(ErrNoCamera)
	}

	var constraints []Constraint
	if pref.DeviceID != "" {
		constraints = append(constraints, Constraint{DeviceID: pref.DeviceID})
	}
	if pref.Facing != "" {
		constraints = append(constraints,
			Constraint{Facing: pref.Facing, Exact: true},
			Constraint{Facing: pref.Facing})
	}
	constraints = append(constraints, Constraint{})

	var lastErr error
	for _, constraint := range constraints {
		stream, err := n.provider.Open(ctx, constraint)
		if err == nil {
			return stream, nil
		}
		lastErr = err
		n.logger.LogAttrs(ctx, slog.LevelDebug, "camera constraint failed",
			slog.String("deviceID", constraint.DeviceID),
			slog.String("facing", string(constraint.Facing)),
			slog.Bool("exact", constraint.Exact),
			errors.SlogError(err))
	}

	return nil, errors.New("every constraint failed", errors.SlogError(lastErr)).Wrap(ErrNoCamera)
}

// Capture draws the current frame of the stream into an offscreen raster at
// the stream's native resolution and encodes it as a JPEG with a synthetic
// filename.
func (n *Negotiator) Capture(stream Stream) (Capture, error) {
	if stream == nil {
		return Capture{}, errors.New("nil stream").Wrap(ErrCaptureFailed)
	}
	frame, err := stream.Frame()
	if err != nil || frame == nil {
		return Capture{}, errors.New("obtain frame surface", errors.SlogError(err)).Wrap(ErrCaptureFailed)
	}

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Capture{}, errors.New("encode frame").Wrap(ErrCaptureFailed)
	}

	token, err := random.Letters(8)
	if err != nil {
		return Capture{}, errors.Wrap(err, "generate filename token")
	}

	return Capture{
		Data:        buf.Bytes(),
		Filename:    fmt.Sprintf("leaf-%s.jpg", token),
		ContentType: "image/jpeg",
	}, nil
}

// Close stops all tracks of the stream. It is idempotent and safe to call on
// a nil or already-stopped stream.
func (n *Negotiator) Close(stream Stream) {
	if stream == nil {
		return
	}
	stream.Stop()
}

// Toggle closes the stream, waits for the device layer to settle, and reopens
// with the opposite facing. It returns the new stream and facing.
func (n *Negotiator) Toggle(ctx context.Context, stream Stream, current Facing) (Stream, Facing, error) {
	n.Close(stream)
	n.sleep(settleDelay)

	next := current.Opposite()
	reopened, err := n.Open(ctx, Preference{Facing: next})
	if err != nil {
		return nil, current, errors.Wrap(err, "reopen with opposite facing", slog.String("facing", string(next)))
	}
	return reopened, next, nil
}
