package diagnose

import (
	"fmt"
	"github.com/myrjola/agrolens/internal/camera"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/language"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var Group = &cobra.Group{
	ID:    "diagnose",
	Title: "Leaf diagnosis",
}

func init() {
	Leaf.Flags().String("language", "en", "language code (en, te, hi, es, ta)")
	Capture.Flags().String("language", "en", "language code (en, te, hi, es, ta)")
	Capture.Flags().String("device", "", "camera device identifier")
	Capture.Flags().String("facing", "environment", "preferred camera facing (environment or user)")
}

var Leaf = &cobra.Command{
	Use:     "leaf [image-file]",
	GroupID: "diagnose",
	Short:   "Diagnose a leaf image",
	Long:    `Sends a leaf image to the detection backend and prints the diagnosis`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Read image error: %v\n", err)
			return
		}
		langFlag, _ := cmd.Flags().GetString("language")

		capture := camera.Capture{
			Data:        data,
			Filename:    filepath.Base(args[0]),
			ContentType: contentTypeFor(args[0]),
		}
		diagnoseCapture(cmd, capture, language.Parse(langFlag))
	},
}

var Capture = &cobra.Command{
	Use:     "capture",
	GroupID: "diagnose",
	Short:   "Capture a photo and diagnose it",
	Long:    `Opens the preferred camera, captures a frame, and sends it to the detection backend`,
	Run: func(cmd *cobra.Command, _ []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		negotiator := camera.New(camera.Platform(), logger)

		device, _ := cmd.Flags().GetString("device")
		facing, _ := cmd.Flags().GetString("facing")
		langFlag, _ := cmd.Flags().GetString("language")

		stream, err := negotiator.Open(cmd.Context(), camera.Preference{
			DeviceID: device,
			Facing:   camera.Facing(facing),
		})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Open camera error: %v\n", err)
			return
		}
		defer negotiator.Close(stream)

		capture, err := negotiator.Capture(stream)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Capture error: %v\n", err)
			return
		}
		diagnoseCapture(cmd, capture, language.Parse(langFlag))
	},
}

var Cameras = &cobra.Command{
	Use:     "cameras",
	GroupID: "diagnose",
	Short:   "List available cameras",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		negotiator := camera.New(camera.Platform(), logger)

		devices := negotiator.List(cmd.Context())
		if len(devices) == 0 {
			fmt.Println("No cameras found.")
			return
		}
		for _, device := range devices {
			fmt.Printf("%s\t%s\t%s\n", device.ID, device.Label, device.Facing)
		}
	},
}

func diagnoseCapture(cmd *cobra.Command, capture camera.Capture, lang language.Language) {
	client := detect.NewClient(os.Getenv("AGROLENS_BACKEND_URL"))
	result, err := client.Detect(cmd.Context(), capture, lang)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Detection error: %v\n", err)
		return
	}
	printResult(result)
}

func printResult(result *detect.Result) {
	fmt.Printf("Disease: %s (%.1f%% confidence)\n", result.Disease, result.Confidence)
	if !result.CropDetected {
		fmt.Println("No crop was detected in the image.")
	}
	if result.Healthy {
		fmt.Println("The plant looks healthy.")
	}
	if result.Summary != "" {
		fmt.Printf("\n%s\n", result.Summary)
	}
	if len(result.Medicines) > 0 {
		fmt.Println("\nTreatments:")
		for _, medicine := range result.Medicines {
			fmt.Printf("  - %s: %s", medicine.Name, medicine.DosageOrApplication)
			if medicine.Notes != "" {
				fmt.Printf(" (%s)", medicine.Notes)
			}
			fmt.Println()
		}
	}
	if len(result.Precautions) > 0 {
		fmt.Println("\nPrecautions:")
		for _, precaution := range result.Precautions {
			fmt.Printf("  - %s\n", precaution)
		}
	}
	if len(result.Causes) > 0 {
		fmt.Println("\nCauses:")
		for _, cause := range result.Causes {
			fmt.Printf("  - %s\n", cause)
		}
	}
	if result.Disclaimer != "" {
		fmt.Printf("\n%s\n", result.Disclaimer)
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
