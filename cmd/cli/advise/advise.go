package advise

import (
	"bufio"
	"fmt"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/language"
	"github.com/myrjola/agrolens/internal/weather"
	"github.com/spf13/cobra"
	"os"
	"strconv"
	"strings"
	"time"
)

var Group = &cobra.Group{
	ID:    "advise",
	Title: "Farming advice",
}

func init() {
	Forecast.Flags().String("language", "en", "language code (en, te, hi, es, ta)")
	Chat.Flags().String("language", "en", "language code (en, te, hi, es, ta)")
	Chat.Flags().String("model", "gemini-2.0-flash", "chat model when no backend is configured")
}

var Forecast = &cobra.Command{
	Use:     "forecast [lat] [lon]",
	GroupID: "advise",
	Short:   "Show the three-day forecast",
	Long:    `Prints the three-day forecast for the given coordinates, or for the current IP location when omitted`,
	Args:    cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			position geolocate.Position
			err      error
		)
		if len(args) == 2 {
			if position.Latitude, err = strconv.ParseFloat(args[0], 64); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Invalid latitude: %v\n", err)
				return
			}
			if position.Longitude, err = strconv.ParseFloat(args[1], 64); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Invalid longitude: %v\n", err)
				return
			}
		} else {
			if position, err = geolocate.NewIPLocator().Locate(cmd.Context()); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Geolocation error: %v\n", err)
				return
			}
		}

		langFlag, _ := cmd.Flags().GetString("language")
		lang := language.Parse(langFlag)

		client := weather.NewClient(os.Getenv("AGROLENS_OPENWEATHER_API_KEY"))
		entries, err := client.Forecast(cmd.Context(), position, lang)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Forecast error: %v\n", err)
			return
		}

		for _, day := range weather.ThreeDay(entries, time.Now(), lang) {
			fmt.Printf("%-20s %3d°C  %s\n", day.Label, day.TemperatureC, day.Condition)
		}
	},
}

var Chat = &cobra.Command{
	Use:     "chat [disease]",
	GroupID: "advise",
	Short:   "Chat about a diagnosis",
	Long:    `Starts an interactive chat about the given disease. Type an empty line to exit`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		langFlag, _ := cmd.Flags().GetString("language")
		lang := language.Parse(langFlag)
		disease := strings.Join(args, " ")

		var completer chat.Completer
		if backendURL := os.Getenv("AGROLENS_BACKEND_URL"); backendURL != "" {
			completer = chat.NewBackend(backendURL)
		} else {
			model, _ := cmd.Flags().GetString("model")
			completer = chat.NewDirectCompleter(
				os.Getenv("AGROLENS_CHAT_API_KEY"),
				os.Getenv("AGROLENS_CHAT_BASE_URL"),
				model,
			)
		}

		session := chat.NewSession(completer)
		session.Reset(disease, lang)
		for _, message := range session.Messages() {
			fmt.Printf("assistant> %s\n", message.Text)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				return
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				return
			}

			reply, err := session.Send(cmd.Context(), text)
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Chat error: %v\n", err)
				continue
			}
			fmt.Printf("assistant> %s\n", reply)
		}
	},
}
