package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_application_home(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := context.Background()

	doc, err := server.Client().GetDoc(ctx, "/")
	require.NoError(t, err)

	require.Equal(t, 1, doc.Find("form[action='/detect']").Length())
	require.Equal(t, 1, doc.Find("input[name=leaf-image]").Length())
	require.Equal(t, 1, doc.Find("select[name=language]").Length())
	require.Equal(t, 5, doc.Find("select[name=language] option").Length())
	require.Equal(t, 1, doc.Find("option[value=en][selected]").Length())
}

func Test_application_healthy(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := context.Background()

	resp, err := server.Client().Get(ctx, "/api/healthy")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
}

func Test_application_changeLanguageWithoutDiagnosis(t *testing.T) {
	server := startTestServer(t, nil)
	ctx := context.Background()

	doc, err := server.Client().SubmitForm(ctx, "/", "/language", url.Values{"language": {"te"}})
	require.NoError(t, err)

	// The redirect lands back on the home page in the new language.
	require.Equal(t, 1, doc.Find("option[value=te][selected]").Length())
	require.Equal(t, 0, doc.Find("option[value=en][selected]").Length())
}
