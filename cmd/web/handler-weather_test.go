package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_application_threeDayForecast(t *testing.T) {
	now := time.Now()
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/forecast", r.URL.Path)
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"list": [
			{"dt_txt": "%s 12:00:00", "main": {"temp": 29.4}, "weather": [{"description": "light rain", "icon": "10d"}]},
			{"dt_txt": "%s 12:00:00", "main": {"temp": 24.6}, "weather": [{"description": "scattered clouds", "icon": "03d"}]},
			{"dt_txt": "%s 12:00:00", "main": {"temp": 31.0}, "weather": [{"description": "clear sky", "icon": "01d"}]}
		]}`,
			now.Format("2006-01-02"),
			now.AddDate(0, 0, 1).Format("2006-01-02"),
			now.AddDate(0, 0, 2).Format("2006-01-02"))
	}))
	t.Cleanup(owm.Close)

	server := startTestServer(t, map[string]string{
		"AGROLENS_WEATHER_URL":         owm.URL,
		"AGROLENS_OPENWEATHER_API_KEY": "test-key",
	})
	ctx := context.Background()

	doc, err := server.Client().GetDoc(ctx, "/weather?lat=17.4&lon=78.5")
	require.NoError(t, err)

	days := doc.Find(".forecast-day")
	require.Equal(t, 3, days.Length())
	require.Contains(t, days.First().Find(".day-label").Text(), "Today")
	require.Equal(t, "29°C", days.First().Find(".day-temperature").Text())
	require.Contains(t, days.First().Find(".day-condition").Text(), "light rain")
}

func Test_application_threeDayForecastWithoutCredential(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := context.Background()

	doc, err := server.Client().GetDoc(ctx, "/weather?lat=17.4&lon=78.5")
	require.NoError(t, err)
	require.Contains(t, doc.Find(".weather-error").Text(), "Weather is unavailable")
}
