package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// newFakeBackend stubs the detection backend. The predicted disease embeds the
// requested language so retranslation can be observed end to end.
func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /detect_disease", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"disease_info": {"predicted_disease": "Tomato Late Blight (%s)", "confidence_score": 96.5},
			"treatment_details": {
				"medicines": [{"name": "Mancozeb", "typical_dosage_or_application": "2g per litre of water", "notes": "Spray weekly"}],
				"precautions": ["Remove infected leaves"],
				"causes": ["Phytophthora infestans"],
				"summary": "Fungal infection that spreads in humid weather.",
				"disclaimer": "Consult a local agronomist before applying treatments."
			}
		}`, r.URL.Query().Get("language"))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "Spray in the evening to avoid leaf burn."}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func Test_application_detectAndChat(t *testing.T) {
	backend := newFakeBackend(t)
	server := startTestServer(t, map[string]string{"AGROLENS_BACKEND_URL": backend.URL})
	ctx := context.Background()

	doc, err := server.Client().UploadImage(ctx, "/", "/detect", "leaf-image", "leaf.jpg", []byte("fake-jpeg-bytes"))
	require.NoError(t, err)

	require.Contains(t, doc.Find("#diagnosis h2").Text(), "Tomato Late Blight (English)")
	require.Contains(t, doc.Find(".medicines").Text(), "Mancozeb")
	require.Contains(t, doc.Find(".precautions").Text(), "Remove infected leaves")
	require.Contains(t, doc.Find(".causes").Text(), "Phytophthora infestans")
	require.Contains(t, doc.Find(".disclaimer").Text(), "Consult a local agronomist")

	// The transcript opens with the assistant greeting for the diagnosis.
	greeting := doc.Find("#chat .message-model").First().Text()
	require.Contains(t, greeting, "Tomato Late Blight")

	doc, err = server.Client().SubmitForm(ctx, "/", "/chat", url.Values{"message": {"When should I spray?"}})
	require.NoError(t, err)
	require.Contains(t, doc.Find(".message-user").Text(), "When should I spray?")
	require.Contains(t, doc.Find(".message-model").Last().Text(), "Spray in the evening")
}

func Test_application_detectRejectsNonLeaf(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "No valid plant leaf detected. Please upload a clear image of a plant leaf."}`))
	}))
	t.Cleanup(backend.Close)
	server := startTestServer(t, map[string]string{"AGROLENS_BACKEND_URL": backend.URL})
	ctx := context.Background()

	doc, err := server.Client().UploadImage(ctx, "/", "/detect", "leaf-image", "cat.jpg", []byte("not-a-leaf"))
	require.NoError(t, err)
	require.Contains(t, doc.Find(".diagnosis.error").Text(), "No valid plant leaf detected")
}

func Test_application_retranslate(t *testing.T) {
	backend := newFakeBackend(t)
	server := startTestServer(t, map[string]string{"AGROLENS_BACKEND_URL": backend.URL})
	ctx := context.Background()

	_, err := server.Client().UploadImage(ctx, "/", "/detect", "leaf-image", "leaf.jpg", []byte("fake-jpeg-bytes"))
	require.NoError(t, err)

	doc, err := server.Client().SubmitForm(ctx, "/", "/language", url.Values{"language": {"hi"}})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("[sse-connect='/language/stream']").Length())

	resp, err := server.Client().Get(ctx, "/language/stream")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	stream, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(stream), "event: result"))
	require.Contains(t, string(stream), "Tomato Late Blight (Hindi)")
}
