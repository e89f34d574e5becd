package main

import (
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/errors"
	"log/slog"
	"net/http"
	"strings"
)

// sendChat exchanges one user message with the assistant. Failures surface in
// the transcript as an assistant message so the conversation flow is preserved.
func (app *application) sendChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(r.PostForm.Get("message"))
	if text == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	transcript, ok := app.sessionManager.Get(ctx, chatSessionKey).([]chat.Message)
	if !ok {
		// There is no diagnosis to chat about.
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	session := chat.NewSession(app.completer)
	session.Restore(transcript)

	if _, err := session.Send(ctx, text); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "chat completion failed", errors.SlogError(err))
	}
	app.sessionManager.Put(ctx, chatSessionKey, session.Messages())

	app.renderPartial(w, r, http.StatusOK, "chat", session.Messages())
}
