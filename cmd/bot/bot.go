package main

import (
	"context"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/myrjola/agrolens/internal/camera"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/geolocate"
	"github.com/myrjola/agrolens/internal/language"
	"github.com/myrjola/agrolens/internal/weather"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const updateTimeoutSeconds = 30

// bot answers leaf photos with a diagnosis, locations with a forecast, and
// text messages with follow-up chat about the latest diagnosis.
type bot struct {
	api       *tgbotapi.BotAPI
	logger    *slog.Logger
	detector  *detect.Client
	weather   *weather.Client
	completer chat.Completer

	mu    sync.Mutex
	chats map[int64]*chatState
}

// chatState is the per-conversation state. Telegram chats are long-lived so
// the language and the running transcript survive between messages.
type chatState struct {
	language language.Language
	session  *chat.Session
	disease  string
}

func newBot(
	api *tgbotapi.BotAPI,
	logger *slog.Logger,
	detector *detect.Client,
	weatherClient *weather.Client,
	completer chat.Completer,
) *bot {
	return &bot{
		api:       api,
		logger:    logger,
		detector:  detector,
		weather:   weatherClient,
		completer: completer,
		chats:     map[int64]*chatState{},
	}
}

func (b *bot) serve(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeoutSeconds
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.chats[chatID]
	if !ok {
		state = &chatState{language: language.English, session: nil, disease: ""}
		b.chats[chatID] = state
	}
	return state
}

func (b *bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.Location != nil:
		b.handleLocation(ctx, chatID, msg.Location)
	case msg.Text != "":
		b.handleText(ctx, chatID, msg.Text)
	}
}

func (b *bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.send(ctx, chatID, "Send me a photo of a plant leaf and I will diagnose it. "+
			"Share a location for a three-day forecast, or just ask questions about your last diagnosis.\n"+
			"Commands: /language <en|te|hi|es|ta>")
	case "language":
		code := strings.TrimSpace(msg.CommandArguments())
		state := b.state(chatID)
		state.language = language.Parse(code)
		b.send(ctx, chatID, fmt.Sprintf("Language set to %s.", state.language.Name()))
	default:
		b.send(ctx, chatID, "Unknown command.")
	}
}

func (b *bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	state := b.state(chatID)

	// The last entry is the largest size Telegram offers.
	photo := msg.Photo[len(msg.Photo)-1]
	data, err := b.downloadPhoto(ctx, photo.FileID)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	b.send(ctx, chatID, "Analyzing the leaf…")

	capture := camera.Capture{
		Data:        data,
		Filename:    photo.FileID + ".jpg",
		ContentType: "image/jpeg",
	}
	result, err := b.detector.Detect(ctx, capture, state.language)
	if err != nil {
		b.sendDetectError(ctx, chatID, err, state.language)
		return
	}

	state.disease = result.Disease
	state.session = chat.NewSession(b.completer)
	state.session.Reset(result.Disease, state.language)

	b.send(ctx, chatID, formatResult(result))
}

func (b *bot) handleLocation(ctx context.Context, chatID int64, location *tgbotapi.Location) {
	state := b.state(chatID)
	position := geolocate.Position{Latitude: location.Latitude, Longitude: location.Longitude}

	entries, err := b.weather.Forecast(ctx, position, state.language)
	if err != nil {
		b.sendError(ctx, chatID, err)
		return
	}

	var sb strings.Builder
	for _, day := range weather.ThreeDay(entries, time.Now(), state.language) {
		_, _ = fmt.Fprintf(&sb, "%s: %d°C, %s\n", day.Label, day.TemperatureC, day.Condition)
	}
	b.send(ctx, chatID, sb.String())
}

func (b *bot) handleText(ctx context.Context, chatID int64, text string) {
	state := b.state(chatID)
	if state.session == nil {
		b.send(ctx, chatID, "Send me a leaf photo first, then I can answer questions about the diagnosis.")
		return
	}

	reply, err := state.session.Send(ctx, text)
	if err != nil {
		b.logger.LogAttrs(ctx, slog.LevelWarn, "chat completion failed", errors.SlogError(err))
		// The session appended the error as an assistant message; show it.
		messages := state.session.Messages()
		b.send(ctx, chatID, messages[len(messages)-1].Text)
		return
	}
	b.send(ctx, chatID, reply)
}

func (b *bot) downloadPhoto(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, errors.Wrap(err, "get file")
	}

	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	var resp *http.Response
	if resp, err = http.DefaultClient.Do(req); err != nil {
		return nil, errors.Wrap(err, "download file")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}

	var data []byte
	if data, err = io.ReadAll(resp.Body); err != nil {
		return nil, errors.Wrap(err, "read file body")
	}
	return data, nil
}

func (b *bot) sendDetectError(ctx context.Context, chatID int64, err error, lang language.Language) {
	var (
		httpErr *detect.HTTPError
		connErr *detect.ConnectionError
	)
	switch {
	case errors.As(err, &httpErr):
		b.send(ctx, chatID, lang.LocalizeDetail(httpErr.Detail))
	case errors.As(err, &connErr):
		b.send(ctx, chatID, connErr.Error())
	default:
		b.sendError(ctx, chatID, err)
	}
}

func (b *bot) sendError(ctx context.Context, chatID int64, err error) {
	b.logger.LogAttrs(ctx, slog.LevelError, "handler error", errors.SlogError(err))
	b.send(ctx, chatID, "Something went wrong, please try again.")
}

func (b *bot) send(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.LogAttrs(ctx, slog.LevelError, "send message", errors.SlogError(err))
	}
}

func formatResult(result *detect.Result) string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s (%.1f%% confidence)\n", result.Disease, result.Confidence)
	if !result.CropDetected {
		sb.WriteString("No crop was detected in the image.\n")
	}
	if result.Healthy {
		sb.WriteString("The plant looks healthy.\n")
	}
	if result.Summary != "" {
		_, _ = fmt.Fprintf(&sb, "\n%s\n", result.Summary)
	}
	if len(result.Medicines) > 0 {
		sb.WriteString("\nTreatments:\n")
		for _, medicine := range result.Medicines {
			_, _ = fmt.Fprintf(&sb, "- %s: %s\n", medicine.Name, medicine.DosageOrApplication)
		}
	}
	if len(result.Precautions) > 0 {
		sb.WriteString("\nPrecautions:\n")
		for _, precaution := range result.Precautions {
			_, _ = fmt.Fprintf(&sb, "- %s\n", precaution)
		}
	}
	if result.Disclaimer != "" {
		_, _ = fmt.Fprintf(&sb, "\n%s\n", result.Disclaimer)
	}
	return sb.String()
}
