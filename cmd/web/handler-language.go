package main

import (
	"context"
	"fmt"
	"github.com/myrjola/agrolens/internal/camera"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/contexthelpers"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/myrjola/agrolens/internal/language"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const retranslateTimeout = 150 * time.Second

// changeLanguage switches the UI language. When a diagnosis is on screen, the
// detection is re-run in the new language in the background and the result is
// streamed to the client over SSE while a retranslating notice shows.
func (app *application) changeLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	lang := language.Parse(r.PostForm.Get("language"))
	app.sessionManager.Put(ctx, languageSessionKey, string(lang))

	image, hasImage := app.sessionManager.Get(ctx, imageSessionKey).([]byte)
	h := app.htmx.NewHandler(w, r)
	if !hasImage {
		// Nothing to retranslate, reload the page in the new language.
		if h.IsHxRequest() {
			h.Refresh(true)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	capture := camera.Capture{
		Data:        image,
		Filename:    app.sessionManager.GetString(ctx, imageNameSessionKey),
		ContentType: app.sessionManager.GetString(ctx, imageTypeSessionKey),
	}
	token := app.sessionManager.Token(ctx)

	channel := make(chan retranslation)
	app.retranslations.Publish(token, channel)
	go app.retranslate(token, capture, lang, channel)

	app.renderPartial(w, r, http.StatusOK, "retranslating", nil)
}

// retranslate re-runs the detection in the new language and hands the outcome
// to the SSE stream through the broker. The session is updated as well so that
// a plain reload shows the retranslated diagnosis.
func (app *application) retranslate(
	token string,
	capture camera.Capture,
	lang language.Language,
	channel chan retranslation,
) {
	defer app.retranslations.Unpublish(token)
	ctx, cancel := context.WithTimeout(context.Background(), retranslateTimeout)
	defer cancel()

	result, err := app.detector.Detect(ctx, capture, lang)
	if err == nil {
		app.storeRetranslated(ctx, token, result, lang)
	}

	select {
	case channel <- retranslation{result: result, err: err}:
	case <-ctx.Done():
	}
	close(channel)
}

func (app *application) storeRetranslated(
	ctx context.Context,
	token string,
	result *detect.Result,
	lang language.Language,
) {
	sessionCtx, err := app.sessionManager.Load(ctx, token)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "load session for retranslation", errors.SlogError(err))
		return
	}
	// The session may have been cleared while the detection was running. In
	// that case the stale response must not resurrect the old diagnosis.
	if _, ok := app.sessionManager.Get(sessionCtx, resultSessionKey).(detect.Result); !ok {
		return
	}

	session := chat.NewSession(app.completer)
	session.Reset(result.Disease, lang)

	app.sessionManager.Put(sessionCtx, resultSessionKey, *result)
	app.sessionManager.Put(sessionCtx, chatSessionKey, session.Messages())
	app.sessionManager.Put(sessionCtx, languageSessionKey, string(lang))
	if _, _, err = app.sessionManager.Commit(sessionCtx); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "commit retranslated session", errors.SlogError(err))
	}
}

// streamRetranslation delivers the retranslated diagnosis over SSE. When the
// producer has already finished, the diagnosis stored in the session is sent
// instead so reconnecting clients still converge on the latest state.
func (app *application) streamRetranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := app.sessionManager.Token(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		app.serverError(w, r, errors.New("response writer does not support flushing"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	channel, open := <-app.retranslations.Subscribe(token)
	if !open || channel == nil {
		app.writeStoredResultEvent(w, r, flusher)
		return
	}

	select {
	case <-ctx.Done():
		return
	case update, more := <-channel:
		if !more {
			app.writeStoredResultEvent(w, r, flusher)
			return
		}
		if update.err != nil {
			app.writeDetectErrorEvent(w, r, flusher, update.err)
			return
		}

		lang := contexthelpers.Language(ctx)
		session := chat.NewSession(app.completer)
		session.Reset(update.result.Disease, lang)
		app.writeResultEvent(w, r, flusher, resultTemplateData{
			Result:     update.result,
			Transcript: session.Messages(),
		})
	}
}

func (app *application) writeStoredResultEvent(w http.ResponseWriter, r *http.Request, flusher http.Flusher) {
	ctx := r.Context()
	result, ok := app.sessionManager.Get(ctx, resultSessionKey).(detect.Result)
	if !ok {
		return
	}
	transcript, _ := app.sessionManager.Get(ctx, chatSessionKey).([]chat.Message)
	app.writeResultEvent(w, r, flusher, resultTemplateData{Result: &result, Transcript: transcript})
}

func (app *application) writeResultEvent(
	w http.ResponseWriter,
	r *http.Request,
	flusher http.Flusher,
	data resultTemplateData,
) {
	buf, err := app.executePartial(r, "result", data)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "render result event", errors.SlogError(err))
		return
	}
	writeSSEEvent(w, "result", buf.String())
	flusher.Flush()
}

func (app *application) writeDetectErrorEvent(
	w http.ResponseWriter,
	r *http.Request,
	flusher http.Flusher,
	detectErr error,
) {
	lang := contexthelpers.Language(r.Context())

	var (
		httpErr *detect.HTTPError
		connErr *detect.ConnectionError
		message string
	)
	switch {
	case errors.As(detectErr, &httpErr):
		message = lang.LocalizeDetail(httpErr.Detail)
	case errors.As(detectErr, &connErr):
		message = connErr.Error()
	default:
		message = "Retranslation failed."
	}

	buf, err := app.executePartial(r, "detect-error", detectErrorTemplateData{Message: message})
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "render error event", errors.SlogError(err))
		return
	}
	writeSSEEvent(w, "result", buf.String())
	flusher.Flush()
}

// writeSSEEvent encodes multi-line HTML as consecutive data lines per the SSE
// wire format.
func writeSSEEvent(w http.ResponseWriter, event, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}
