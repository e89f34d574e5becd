package envstruct

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestPopulate(t *testing.T) {
	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "AGROLENS_API_URL":
			return "http://localhost:8000", true
		case "AGROLENS_WEATHER_TIMEOUT_SECONDS":
			return "15", true
		case "AGROLENS_DEFAULT_LATITUDE":
			return "17.385", true
		default:
			return "", false
		}
	}

	type config struct {
		APIURL         string  `env:"AGROLENS_API_URL"`
		WeatherTimeout int     `env:"AGROLENS_WEATHER_TIMEOUT_SECONDS"`
		Latitude       float64 `env:"AGROLENS_DEFAULT_LATITUDE"`
		Addr           string  `env:"AGROLENS_ADDR" envDefault:"localhost:4000"`
	}

	var cfg config
	err := Populate(&cfg, lookupEnv)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", cfg.APIURL)
	require.Equal(t, 15, cfg.WeatherTimeout)
	require.InDelta(t, 17.385, cfg.Latitude, 0.0001)
	require.Equal(t, "localhost:4000", cfg.Addr)
}

func TestPopulateMissingEnv(t *testing.T) {
	lookupEnv := func(string) (string, bool) {
		return "", false
	}

	type config struct {
		APIURL string `env:"AGROLENS_API_URL"`
	}

	var cfg config
	err := Populate(&cfg, lookupEnv)
	require.ErrorIs(t, err, ErrEnvNotSet)
}

func TestPopulateInvalidValues(t *testing.T) {
	lookupEnv := func(key string) (string, bool) {
		return "not-a-number", true
	}

	type config struct {
		Timeout int `env:"AGROLENS_TIMEOUT"`
	}

	var cfg config
	err := Populate(&cfg, lookupEnv)
	require.ErrorIs(t, err, ErrInvalidValue)

	require.ErrorIs(t, Populate(struct{}{}, lookupEnv), ErrInvalidValue)
}
