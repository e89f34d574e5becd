package geolocate

import (
	"context"
	"encoding/json"
	"github.com/myrjola/agrolens/internal/errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const defaultIPAPIBaseURL = "http://ip-api.com"

// IPLocator approximates the position from the caller's public IP address.
// It is far coarser than device geolocation but good enough for a local
// weather forecast.
type IPLocator struct {
	baseURL string
	client  *http.Client
}

// NewIPLocator creates an IPLocator against ip-api.com.
func NewIPLocator() *IPLocator {
	return &IPLocator{
		baseURL: defaultIPAPIBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewIPLocatorWithBaseURL is used in tests to point the locator at a stub.
func NewIPLocatorWithBaseURL(baseURL string) *IPLocator {
	locator := NewIPLocator()
	locator.baseURL = baseURL
	return locator
}

func (l *IPLocator) Locate(ctx context.Context) (Position, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		l.baseURL+"/json?fields=status,message,lat,lon",
		nil,
	); err != nil {
		return Position{}, errors.Wrap(err, "create request")
	}

	if resp, err = l.client.Do(req); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Position{}, errors.New("ip lookup timed out").Wrap(ErrTimeout)
		}
		return Position{}, errors.New("ip lookup failed").Wrap(ErrUnavailable)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if http.StatusOK != resp.StatusCode {
		return Position{}, errors.New("unexpected status code",
			slog.Int("status", resp.StatusCode)).Wrap(ErrPositionUnavailable)
	}

	var body struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, errors.New("decode ip lookup response").Wrap(ErrPositionUnavailable)
	}
	if body.Status != "success" {
		return Position{}, errors.New("ip lookup rejected",
			slog.String("message", body.Message)).Wrap(ErrPositionUnavailable)
	}

	return Position{Latitude: body.Lat, Longitude: body.Lon}, nil
}
