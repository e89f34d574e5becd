package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/language"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Client fetches forecasts from an OpenWeatherMap-compatible endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a forecast client. An empty apiKey is allowed at
// construction time; Forecast fails fast with ErrMissingCredential.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used in tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Forecast fetches the 3-hour-interval forecast list for the position in
// metric units and the given language.
func (c *Client) Forecast(
	ctx context.Context,
	position geolocate.Position,
	lang language.Language,
) ([]Entry, error) {
	if c.apiKey == "" {
		return nil, errors.New("refusing to call forecast endpoint").Wrap(ErrMissingCredential)
	}

	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", position.Latitude))
	query.Set("lon", fmt.Sprintf("%f", position.Longitude))
	query.Set("units", "metric")
	query.Set("lang", string(lang))
	query.Set("appid", c.apiKey)

	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/data/2.5/forecast?"+query.Encode(),
		nil,
	); err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.New("forecast request failed").Wrap(ErrFetch)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode)).Wrap(ErrFetch)
	}

	var body struct {
		List []Entry `json:"list"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.New("decode forecast response").Wrap(ErrFetch)
	}

	return body.List, nil
}
