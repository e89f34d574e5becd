package main

import (
	"github.com/myrjola/agrolens/internal/camera"
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/contexthelpers"
	"github.com/myrjola/agrolens/internal/detect"
	"github.com/myrjola/agrolens/internal/errors"
	"io"
	"log/slog"
	"net/http"
)

const (
	maxUploadBytes  = 10 << 20
	uploadFieldName = "leaf-image"
)

type resultTemplateData struct {
	Result     *detect.Result
	Transcript []chat.Message
}

type detectErrorTemplateData struct {
	Message string
}

// detectLeaf submits the uploaded leaf image to the detection backend and
// renders the diagnosis together with a fresh chat transcript. The upload is
// kept in the session so a language change can re-run the detection.
func (app *application) detectLeaf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()
	var data []byte
	if data, err = io.ReadAll(file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "read uploaded image"))
		return
	}

	capture := camera.Capture{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	lang := contexthelpers.Language(ctx)

	var result *detect.Result
	if result, err = app.detector.Detect(ctx, capture, lang); err != nil {
		app.renderDetectError(w, r, err)
		return
	}

	session := chat.NewSession(app.completer)
	session.Reset(result.Disease, lang)

	app.sessionManager.Put(ctx, resultSessionKey, *result)
	app.sessionManager.Put(ctx, chatSessionKey, session.Messages())
	app.sessionManager.Put(ctx, imageSessionKey, data)
	app.sessionManager.Put(ctx, imageNameSessionKey, capture.Filename)
	app.sessionManager.Put(ctx, imageTypeSessionKey, capture.ContentType)

	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		app.renderPartial(w, r, http.StatusOK, "result", resultTemplateData{
			Result:     result,
			Transcript: session.Messages(),
		})
		return
	}

	data2 := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Result:           result,
		Transcript:       session.Messages(),
	}
	app.render(w, r, http.StatusOK, "home", data2)
}

// renderDetectError turns the detection failure kinds into inline messages.
// Backend validation messages such as the no-leaf rejection are localized.
func (app *application) renderDetectError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	lang := contexthelpers.Language(ctx)

	var (
		httpErr *detect.HTTPError
		connErr *detect.ConnectionError
		message string
	)
	switch {
	case errors.As(err, &httpErr):
		message = lang.LocalizeDetail(httpErr.Detail)
	case errors.As(err, &connErr):
		message = connErr.Error()
	case errors.Is(err, detect.ErrMissingBaseURL):
		message = "The detection backend is not configured."
	case errors.Is(err, detect.ErrUnexpectedFormat):
		message = "The detection backend sent an unexpected response."
	default:
		app.serverError(w, r, err)
		return
	}

	app.logger.LogAttrs(ctx, slog.LevelWarn, "detection failed", errors.SlogError(err))
	app.renderPartial(w, r, http.StatusOK, "detect-error", detectErrorTemplateData{Message: message})
}
