package geolocate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIPLocator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":17.385,"lon":78.4867}`))
	}))
	defer server.Close()

	position, err := NewIPLocatorWithBaseURL(server.URL).Locate(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 17.385, position.Latitude, 0.0001)
	require.InDelta(t, 78.4867, position.Longitude, 0.0001)
}

func TestIPLocatorRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	_, err := NewIPLocatorWithBaseURL(server.URL).Locate(context.Background())
	require.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestIPLocatorUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := NewIPLocatorWithBaseURL(server.URL).Locate(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFakeLocator(t *testing.T) {
	position, err := FakeLocator{Position: Position{Latitude: 1, Longitude: 2}}.Locate(context.Background())
	require.NoError(t, err)
	require.Equal(t, Position{Latitude: 1, Longitude: 2}, position)

	_, err = FakeLocator{Err: ErrPermissionDenied}.Locate(context.Background())
	require.ErrorIs(t, err, ErrPermissionDenied)
}
