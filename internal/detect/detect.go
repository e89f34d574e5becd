// Package detect submits leaf images to the disease-detection backend and
// normalizes its loosely-typed responses into a stable result model.
package detect

import (
	"fmt"
	"github.com/myrjola/agrolens/internal/errors"
	"strings"
)

// Medicine is one treatment suggestion.
type Medicine struct {
	Name                string
	DosageOrApplication string
	Notes               string
}

// Result is the normalized outcome of a detection request. The derived
// Healthy and CropDetected flags are computed once at normalization time from
// the disease name and never recomputed.
type Result struct {
	Disease     string
	Confidence  float64
	Medicines   []Medicine
	Precautions []string
	Causes      []string
	Summary     string
	Disclaimer  string

	Healthy      bool
	CropDetected bool
}

var (
	// ErrMissingBaseURL means the backend URL is not configured; Detect fails
	// fast without a network call.
	ErrMissingBaseURL = errors.NewSentinel("detection backend URL not configured")
	// ErrUnexpectedFormat means the success body could not be decoded.
	ErrUnexpectedFormat = errors.NewSentinel("unexpected detection response format")
)

// ConnectionError means the backend could not be reached at all, as opposed
// to responding with an error status.
type ConnectionError struct {
	BaseURL string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach detection backend at %s", e.BaseURL)
}

// HTTPError is a non-success response from the backend with its detail
// folded into a single human-readable message.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return e.Detail
}

// deriveHealthy reports whether the backend's naming convention marks the
// disease name as healthy.
func deriveHealthy(disease string) bool {
	return strings.Contains(strings.ToLower(disease), "healthy")
}

// deriveCropDetected reports whether a crop was detected. The check is
// independent of deriveHealthy.
func deriveCropDetected(disease string) bool {
	return !strings.Contains(strings.ToLower(disease), "no crop detected")
}
