package main

import (
	"context"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/agrolens/internal/broker"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/envstruct"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/logging"
	"github.com/myrjola/agrolens/internal/pprofserver"
	"github.com/myrjola/agrolens/internal/weather"
	"log/slog"
	"os"
	"time"
)

type config struct {
	Addr           string `env:"AGROLENS_ADDR" envDefault:"localhost:4000"`
	BackendURL     string `env:"AGROLENS_BACKEND_URL" envDefault:""`
	WeatherURL     string `env:"AGROLENS_WEATHER_URL" envDefault:"https://api.openweathermap.org"`
	WeatherAPIKey  string `env:"AGROLENS_OPENWEATHER_API_KEY" envDefault:""`
	GeolocationURL string `env:"AGROLENS_GEOLOCATION_URL" envDefault:"http://ip-api.com"`
	ChatAPIKey     string `env:"AGROLENS_CHAT_API_KEY" envDefault:""`
	ChatBaseURL    string `env:"AGROLENS_CHAT_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	ChatModel      string `env:"AGROLENS_CHAT_MODEL" envDefault:"gemini-2.0-flash"`
	UIDir          string `env:"AGROLENS_UI_DIR" envDefault:"./ui"`
}

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	detector       *detect.Client
	weather        *weather.Client
	locator        geolocate.Locator
	completer      chat.Completer
	retranslations *broker.ChannelBroker[string, retranslation]
	uiDir          string
}

// retranslation carries the outcome of re-running the detection after a
// language change.
type retranslation struct {
	result *detect.Result
	err    error
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	sessionManager := scs.New()
	sessionManager.Store = memstore.New()
	sessionManager.Lifetime = 12 * time.Hour

	// The chat completer goes through the backend when one is configured,
	// otherwise it talks to the language model directly.
	var completer chat.Completer
	if cfg.BackendURL != "" {
		completer = chat.NewBackend(cfg.BackendURL)
	} else {
		completer = chat.NewDirectCompleter(cfg.ChatAPIKey, cfg.ChatBaseURL, cfg.ChatModel)
	}

	retranslations := broker.NewChannelBroker[string, retranslation]()
	go retranslations.Start()
	defer retranslations.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		detector:       detect.NewClient(cfg.BackendURL),
		weather:        weather.NewClientWithBaseURL(cfg.WeatherAPIKey, cfg.WeatherURL),
		locator:        geolocate.NewIPLocatorWithBaseURL(cfg.GeolocationURL),
		completer:      completer,
		retranslations: retranslations,
		uiDir:          cfg.UIDir,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err.Error())
	}

	// Initialise pprof listening on localhost so that it's not open to the world
	pprofPort, ok := os.LookupEnv("AGROLENS_PPROF_PORT")
	if !ok {
		pprofPort = ":6060"
	}
	pprofserver.Launch(pprofPort, logger)

	ctx := context.Background()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server failed", errors.SlogError(err))
		os.Exit(1)
	}
}
