// Package chat maintains the follow-up conversation for one detection
// result and exchanges messages with the assistant backend.
package chat

import (
	"context"
	"fmt"
	"github.com/myrjola/agrolens/internal/errors"
)

// Role of a transcript message.
type Role string

const (
	RoleUser Role = "user"
	// RoleModel is the assistant's local role name. It is renamed to
	// "assistant" for the wire format.
	RoleModel Role = "model"
)

// Message is one transcript entry.
type Message struct {
	Role Role
	Text string
}

var (
	// ErrMissingBaseURL means no chat backend is configured.
	ErrMissingBaseURL = errors.NewSentinel("chat backend URL not configured")
	// ErrUnexpectedFormat means the success body carried no usable reply.
	ErrUnexpectedFormat = errors.NewSentinel("unexpected chat response format")
	// ErrChat covers other chat failures such as error statuses.
	ErrChat = errors.NewSentinel("chat request failed")
)

// ConnectionError means the chat backend could not be reached at all.
type ConnectionError struct {
	BaseURL string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach chat backend at %s", e.BaseURL)
}

// Completer exchanges one message with the assistant given the prior
// transcript.
type Completer interface {
	Complete(ctx context.Context, message string, history []Message) (string, error)
}
