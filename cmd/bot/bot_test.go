package main

import (
	"testing"

	"github.com/myrjola/agrolens/internal/detect"
	"github.com/stretchr/testify/require"
)

func Test_formatResult(t *testing.T) {
	result := &detect.Result{
		Disease:    "Tomato Late Blight",
		Confidence: 96.5,
		Medicines: []detect.Medicine{
			{Name: "Mancozeb", DosageOrApplication: "2g per litre of water", Notes: "Spray weekly"},
		},
		Precautions:  []string{"Remove infected leaves"},
		Causes:       []string{"Phytophthora infestans"},
		Summary:      "Fungal infection that spreads in humid weather.",
		Disclaimer:   "Consult a local agronomist before applying treatments.",
		Healthy:      false,
		CropDetected: true,
	}

	text := formatResult(result)
	require.Contains(t, text, "Tomato Late Blight (96.5% confidence)")
	require.Contains(t, text, "- Mancozeb: 2g per litre of water")
	require.Contains(t, text, "- Remove infected leaves")
	require.Contains(t, text, "Consult a local agronomist")
	require.NotContains(t, text, "No crop was detected")
}

func Test_formatResultNoCrop(t *testing.T) {
	result := &detect.Result{
		Disease:      "No Crop Detected",
		Confidence:   0,
		Medicines:    []detect.Medicine{},
		Precautions:  []string{},
		Causes:       []string{},
		Summary:      "",
		Disclaimer:   "",
		Healthy:      false,
		CropDetected: false,
	}

	text := formatResult(result)
	require.Contains(t, text, "No crop was detected in the image.")
}
