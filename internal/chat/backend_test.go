package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackendComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "How do I treat it?", body.Message)
		require.Equal(t, []wireMessage{
			{Role: "assistant", Content: "Hello! Ask me about Tomato Late Blight."},
			{Role: "user", Content: "What causes it?"},
		}, body.History, "model role is renamed to assistant on the wire")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "Apply fungicide weekly"}`))
	}))
	defer server.Close()

	history := []Message{
		{Role: RoleModel, Text: "Hello! Ask me about Tomato Late Blight."},
		{Role: RoleUser, Text: "What causes it?"},
	}
	reply, err := NewBackend(server.URL).Complete(context.Background(), "How do I treat it?", history)
	require.NoError(t, err)
	require.Equal(t, "Apply fungicide weekly", reply)
}

func TestBackendCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewBackend(server.URL).Complete(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrChat)
}

func TestBackendCompleteConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := NewBackend(server.URL).Complete(context.Background(), "hi", nil)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, server.URL, connErr.BaseURL)
}

func TestBackendCompleteMissingBaseURL(t *testing.T) {
	_, err := NewBackend("").Complete(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "documented response field", body: `{"response": "use neem oil"}`, want: "use neem oil"},
		{name: "legacy reply field", body: `{"reply": "Apply fungicide weekly"}`, want: "Apply fungicide weekly"},
		{name: "first string property wins", body: `{"count": 3, "text": "first", "extra": "second"}`, want: "first"},
		{name: "nested values are skipped", body: `{"meta": {"inner": "nope"}, "answer": "yes"}`, want: "yes"},
		{name: "no string property", body: `{"count": 3, "ok": true}`, wantErr: true},
		{name: "not an object", body: `["a", "b"]`, wantErr: true},
		{name: "not json", body: `hello`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := extractReply([]byte(tt.body))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnexpectedFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, reply)
		})
	}
}
