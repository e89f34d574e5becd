package main

import (
	"github.com/justinas/alice"
	"net/http"
	"path/filepath"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServer(http.Dir(filepath.Join(app.uiDir, "static")))
	mux.Handle("/static/", cacheForeverHeaders(http.StripPrefix("/static", fileServer)))

	dynamic := alice.New(app.sessionManager.LoadAndSave, noSurf, app.resolveLanguage, commonContext)
	// Server sent events cannot use LoadAndSave because it commits the session
	// when the handler returns, which never happens for an open stream.
	sse := alice.New(app.serverSentEventMiddleware, noSurf, app.resolveLanguage, commonContext)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /detect", dynamic.ThenFunc(app.detectLeaf))
	mux.Handle("POST /chat", dynamic.ThenFunc(app.sendChat))
	mux.Handle("GET /weather", dynamic.ThenFunc(app.threeDayForecast))
	mux.Handle("POST /language", dynamic.ThenFunc(app.changeLanguage))
	mux.Handle("GET /language/stream", sse.ThenFunc(app.streamRetranslation))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	return app.recoverPanic(app.logRequest(app.secureHeaders(mux)))
}
