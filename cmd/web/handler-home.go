package main

import (
	"github.com/myrjola/agrolens/internal/chat"
	"github.com/myrjola/agrolens/internal/detect"
	"net/http"
)

type homeTemplateData struct {
	BaseTemplateData

	Result     *detect.Result
	Transcript []chat.Message
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Result:           nil,
		Transcript:       nil,
	}

	if result, ok := app.sessionManager.Get(ctx, resultSessionKey).(detect.Result); ok {
		data.Result = &result
	}
	if transcript, ok := app.sessionManager.Get(ctx, chatSessionKey).([]chat.Message); ok {
		data.Transcript = transcript
	}

	app.render(w, r, http.StatusOK, "home", data)
}
