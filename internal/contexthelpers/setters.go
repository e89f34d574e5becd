package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/agrolens/internal/language"
)

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, cspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}

func SetLanguage(r *http.Request, lang language.Language) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, languageContextKey, lang)
	return r.WithContext(ctx)
}
