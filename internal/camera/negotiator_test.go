package camera

import (
	"bytes"
	"context"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/testhelpers"
	"image/jpeg"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestNegotiator(provider Provider) *Negotiator {
	return New(provider, testhelpers.NewLogger(io.Discard))
}

func TestOpenPrefersExactDevice(t *testing.T) {
	provider := &FakeProvider{DeviceList: []Device{
		{ID: "front", Label: "Front camera", Facing: FacingUser},
		{ID: "rear", Label: "Rear camera", Facing: FacingEnvironment},
	}}
	negotiator := newTestNegotiator(provider)

	stream, err := negotiator.Open(context.Background(), Preference{DeviceID: "rear", Facing: FacingUser})
	require.NoError(t, err)
	require.Equal(t, "rear", stream.(*FakeStream).Device.ID)
}

func TestOpenFallsThroughToAnyCamera(t *testing.T) {
	// A device exposing only a user-facing camera must still satisfy an
	// environment-facing preference via the any-camera rung.
	provider := &FakeProvider{DeviceList: []Device{
		{ID: "front", Label: "Front camera", Facing: FacingUser},
	}}
	negotiator := newTestNegotiator(provider)

	stream, err := negotiator.Open(context.Background(), Preference{Facing: FacingEnvironment})
	require.NoError(t, err)
	require.Equal(t, "front", stream.(*FakeStream).Device.ID)
}

func TestOpenNoCamera(t *testing.T) {
	negotiator := newTestNegotiator(&FakeProvider{})

	_, err := negotiator.Open(context.Background(), Preference{Facing: FacingEnvironment})
	require.ErrorIs(t, err, ErrNoCamera)
}

func TestOpenWithoutPlatformSupport(t *testing.T) {
	negotiator := newTestNegotiator(nil)

	_, err := negotiator.Open(context.Background(), Preference{})
	require.ErrorIs(t, err, ErrNoCamera)
	require.Empty(t, negotiator.List(context.Background()))
}

func TestListDegradesSilently(t *testing.T) {
	provider := &FakeProvider{DevicesErr: errors.NewSentinel("enumeration denied")}
	negotiator := newTestNegotiator(provider)

	require.Empty(t, negotiator.List(context.Background()))
}

func TestCaptureEncodesJPEGAtNativeResolution(t *testing.T) {
	provider := &FakeProvider{
		DeviceList:  []Device{{ID: "rear", Facing: FacingEnvironment}},
		FrameWidth:  320,
		FrameHeight: 240,
	}
	negotiator := newTestNegotiator(provider)
	stream, err := negotiator.Open(context.Background(), Preference{Facing: FacingEnvironment})
	require.NoError(t, err)

	capture, err := negotiator.Capture(stream)
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", capture.ContentType)
	require.True(t, strings.HasPrefix(capture.Filename, "leaf-"))
	require.True(t, strings.HasSuffix(capture.Filename, ".jpg"))

	config, err := jpeg.DecodeConfig(bytes.NewReader(capture.Data))
	require.NoError(t, err)
	require.Equal(t, 320, config.Width)
	require.Equal(t, 240, config.Height)
}

func TestCaptureFailsOnStoppedStream(t *testing.T) {
	provider := &FakeProvider{DeviceList: []Device{{ID: "rear", Facing: FacingEnvironment}}}
	negotiator := newTestNegotiator(provider)
	stream, err := negotiator.Open(context.Background(), Preference{})
	require.NoError(t, err)

	negotiator.Close(stream)
	_, err = negotiator.Capture(stream)
	require.ErrorIs(t, err, ErrCaptureFailed)

	_, err = negotiator.Capture(nil)
	require.ErrorIs(t, err, ErrCaptureFailed)
}

func TestCloseIsIdempotent(t *testing.T) {
	provider := &FakeProvider{DeviceList: []Device{{ID: "rear", Facing: FacingEnvironment}}}
	negotiator := newTestNegotiator(provider)
	stream, err := negotiator.Open(context.Background(), Preference{})
	require.NoError(t, err)

	negotiator.Close(nil)
	negotiator.Close(stream)
	negotiator.Close(stream)
	require.True(t, stream.(*FakeStream).Stopped())
}

func TestToggleStopsWaitsAndReopens(t *testing.T) {
	provider := &FakeProvider{DeviceList: []Device{
		{ID: "front", Facing: FacingUser},
		{ID: "rear", Facing: FacingEnvironment},
	}}
	negotiator := newTestNegotiator(provider)

	var slept time.Duration
	negotiator.sleep = func(d time.Duration) { slept = d }

	stream, err := negotiator.Open(context.Background(), Preference{Facing: FacingEnvironment})
	require.NoError(t, err)

	reopened, facing, err := negotiator.Toggle(context.Background(), stream, FacingEnvironment)
	require.NoError(t, err)
	require.Equal(t, FacingUser, facing)
	require.Equal(t, settleDelay, slept)
	require.True(t, stream.(*FakeStream).Stopped())
	require.Equal(t, "front", reopened.(*FakeStream).Device.ID)
}

func TestOppositeFacing(t *testing.T) {
	require.Equal(t, FacingUser, FacingEnvironment.Opposite())
	require.Equal(t, FacingEnvironment, FacingUser.Opposite())
	require.Equal(t, FacingEnvironment, Facing("").Opposite())
}
