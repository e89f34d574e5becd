package weather

import (
	"context"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/language"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/forecast", r.URL.Path)
		query := r.URL.Query()
		require.Equal(t, "metric", query.Get("units"))
		require.Equal(t, "hi", query.Get("lang"))
		require.Equal(t, "test-key", query.Get("appid"))
		require.NotEmpty(t, query.Get("lat"))
		require.NotEmpty(t, query.Get("lon"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[
			{"dt_txt":"2024-05-15 09:00:00","main":{"temp":29.4},"weather":[{"description":"scattered clouds","icon":"03d"}]}
		]}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	entries, err := client.Forecast(context.Background(), geolocate.Position{Latitude: 17.4, Longitude: 78.5}, language.Hindi)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "scattered clouds", entries[0].Weather[0].Description)
	require.InDelta(t, 29.4, entries[0].Main.Temp, 0.001)
}

func TestForecastMissingCredential(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClientWithBaseURL("", server.URL)
	_, err := client.Forecast(context.Background(), geolocate.Position{}, language.English)
	require.ErrorIs(t, err, ErrMissingCredential)
	require.False(t, called, "no network call without a credential")
}

func TestForecastHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("bad-key", server.URL)
	_, err := client.Forecast(context.Background(), geolocate.Position{}, language.English)
	require.ErrorIs(t, err, ErrFetch)
}

func TestForecastUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	_, err := client.Forecast(context.Background(), geolocate.Position{}, language.English)
	require.ErrorIs(t, err, ErrFetch)
}
