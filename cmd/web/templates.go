package main

import (
	"github.com/myrjola/agrolens/internal/contexthelpers"
	"github.com/myrjola/agrolens/internal/language"
	"net/http"
)

type BaseTemplateData struct {
	CurrentPath string
	Language    language.Language
	Languages   []language.Language
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(ctx),
		Language:    contexthelpers.Language(ctx),
		Languages:   language.All(),
	}
}
