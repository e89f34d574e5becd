package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/myrjola/agrolens/internal/errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Backend talks to the remote chat endpoint.
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates a chat completer against the backend's /chat endpoint.
func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message string        `json:"message"`
	History []wireMessage `json:"history"`
}

// Complete sends the message plus the prior transcript re-shaped for the
// wire format: every history entry becomes {role, content} with the local
// model role renamed to "assistant".
func (b *Backend) Complete(ctx context.Context, message string, history []Message) (string, error) {
	if b.baseURL == "" {
		return "", errors.New("refusing to call chat backend").Wrap(ErrMissingBaseURL)
	}

	wireHistory := make([]wireMessage, 0, len(history))
	for _, m := range history {
		role := string(m.Role)
		if m.Role == RoleModel {
			role = "assistant"
		}
		wireHistory = append(wireHistory, wireMessage{Role: role, Content: m.Text})
	}

	payload, err := json.Marshal(chatRequest{Message: message, History: wireHistory})
	if err != nil {
		return "", errors.Wrap(err, "marshal chat request")
	}

	var req *http.Request
	if req, err = http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.baseURL+"/chat",
		bytes.NewReader(payload),
	); err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	if resp, err = b.client.Do(req); err != nil {
		return "", &ConnectionError{BaseURL: b.baseURL}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var raw []byte
	if raw, err = io.ReadAll(resp.Body); err != nil {
		return "", errors.Wrap(err, "read response body")
	}

	if http.StatusOK != resp.StatusCode {
		return "", errors.New("unexpected status code",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw))).Wrap(ErrChat)
	}

	return extractReply(raw)
}

// extractReply pulls the assistant's reply out of an ambiguously-shaped
// response object. The documented shape {"response": string} is tried first;
// older backends are tolerated by taking the first string-typed property
// value in document order.
func extractReply(raw []byte) (string, error) {
	var envelope struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Response != nil {
		return *envelope.Response, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	token, err := decoder.Token()
	if err != nil {
		return "", errors.New("decode chat response").Wrap(ErrUnexpectedFormat)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return "", errors.New("chat response is not an object").Wrap(ErrUnexpectedFormat)
	}

	for decoder.More() {
		// Property name.
		if _, err = decoder.Token(); err != nil {
			return "", errors.New("decode chat response").Wrap(ErrUnexpectedFormat)
		}
		// Property value, which may be arbitrarily nested.
		var value any
		if err = decoder.Decode(&value); err != nil {
			return "", errors.New("decode chat response").Wrap(ErrUnexpectedFormat)
		}
		if reply, ok := value.(string); ok {
			return reply, nil
		}
	}

	return "", errors.New("no string-valued property in chat response").Wrap(ErrUnexpectedFormat)
}
