package main

import (
	"context"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/envstruct"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/logging"
	"github.com/myrjola/agrolens/internal/weather"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type config struct {
	TelegramToken string `env:"AGROLENS_TELEGRAM_TOKEN"`
	BackendURL    string `env:"AGROLENS_BACKEND_URL" envDefault:""`
	WeatherAPIKey string `env:"AGROLENS_OPENWEATHER_API_KEY" envDefault:""`
	ChatAPIKey    string `env:"AGROLENS_CHAT_API_KEY" envDefault:""`
	ChatBaseURL   string `env:"AGROLENS_CHAT_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai"`
	ChatModel     string `env:"AGROLENS_CHAT_MODEL" envDefault:"gemini-2.0-flash"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return errors.Wrap(err, "create bot API")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "authorized bot", slog.String("username", api.Self.UserName))

	var completer chat.Completer
	if cfg.BackendURL != "" {
		completer = chat.NewBackend(cfg.BackendURL)
	} else {
		completer = chat.NewDirectCompleter(cfg.ChatAPIKey, cfg.ChatBaseURL, cfg.ChatModel)
	}

	b := newBot(api, logger, detect.NewClient(cfg.BackendURL), weather.NewClient(cfg.WeatherAPIKey), completer)
	return b.serve(ctx)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err.Error())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "bot failed", errors.SlogError(err))
		os.Exit(1)
	}
}
