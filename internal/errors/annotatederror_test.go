package errors

import (
	"github.com/stretchr/testify/require"
	"log/slog"
	"slices"
	"testing"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("test error")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := err.Wrap(sentinel)
	require.ErrorIs(t, wrapped, sentinel)

	// Ensure log values are coming through.
	group := err.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	source := group[sourceIdx]
	require.Contains(t, source.Value.String(), "annotatederror_test.go")
}

func TestWrap(t *testing.T) {
	sentinel := NewSentinel("credential missing")
	wrapped := Wrap(sentinel, "load forecast", slog.String("provider", "openweathermap"))
	require.ErrorIs(t, wrapped, sentinel)

	var annotated AnnotatedError
	require.True(t, As(wrapped, &annotated))
	require.Equal(t, "load forecast", annotated.Error())
	require.Contains(t, annotated.LogValue().Group(), slog.String("provider", "openweathermap"))
}

func TestSlogError(t *testing.T) {
	err := New("boom")
	attr := SlogError(err)
	require.Equal(t, "error", attr.Key)
}
