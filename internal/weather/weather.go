// Package weather fetches a multi-day, 3-hour-interval forecast and reduces
// it to exactly three calendar-day summaries aligned to today, tomorrow, and
// the day after tomorrow.
package weather

import "github.com/myrjola/agrolens/internal/errors"

// Entry is a single 3-hour forecast point as the provider reports it.
type Entry struct {
	// DtTxt is the forecast timestamp, e.g. "2024-05-15 09:00:00". The date
	// portion is the grouping key for reconciliation.
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
}

// Condition is the primary weather condition of a forecast point.
type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Day is one reconciled calendar-day summary. Values are never mutated after
// creation.
type Day struct {
	Label        string
	TemperatureC int
	Condition    string
	Icon         string
}

// defaultIcon is the placeholder icon code for days without forecast data.
const defaultIcon = "01d"

var (
	// ErrMissingCredential means no API key is configured; no network call is
	// attempted in that case.
	ErrMissingCredential = errors.NewSentinel("weather API key not configured")
	// ErrFetch wraps transport failures and non-success statuses from the
	// forecast endpoint.
	ErrFetch = errors.NewSentinel("forecast fetch failed")
)
