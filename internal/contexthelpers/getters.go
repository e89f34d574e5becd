package contexthelpers

import (
	"context"

	"github.com/myrjola/agrolens/internal/language"
)

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return cspNonce
}

// Language defaults to English when the middleware has not resolved one.
func Language(ctx context.Context) language.Language {
	lang, ok := ctx.Value(languageContextKey).(language.Language)
	if !ok {
		return language.English
	}

	return lang
}
