package main

import (
	"github.com/myrjola/agrolens/internal/contexthelpers"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/weather"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type weatherTemplateData struct {
	Days []weather.Day
}

type weatherErrorTemplateData struct {
	Message string
}

// threeDayForecast renders the three-day forecast for the position given in
// the query, falling back to IP-based geolocation when coordinates are absent.
func (app *application) threeDayForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := contexthelpers.Language(ctx)

	position, err := app.position(r)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "geolocation failed", errors.SlogError(err))
		app.renderPartial(w, r, http.StatusOK, "weather-error", weatherErrorTemplateData{
			Message: "Could not determine your location.",
		})
		return
	}

	entries, err := app.weather.Forecast(ctx, position, lang)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "forecast fetch failed", errors.SlogError(err))
		app.renderPartial(w, r, http.StatusOK, "weather-error", weatherErrorTemplateData{
			Message: "Weather is unavailable right now.",
		})
		return
	}

	days := weather.ThreeDay(entries, time.Now(), lang)
	app.renderPartial(w, r, http.StatusOK, "weather", weatherTemplateData{Days: days})
}

func (app *application) position(r *http.Request) (geolocate.Position, error) {
	query := r.URL.Query()
	latStr := query.Get("lat")
	lonStr := query.Get("lon")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			return geolocate.Position{Latitude: lat, Longitude: lon}, nil
		}
	}
	return app.locator.Locate(r.Context())
}
