package chat

import (
	"context"
	"fmt"
	"github.com/myrjola/agrolens/internal/language"
)

// Session owns a strictly append-only transcript for the lifetime of one
// detection result. It is not safe for concurrent use; each view instance
// owns exactly one session.
type Session struct {
	completer Completer
	messages  []Message
}

// NewSession creates an empty session on top of the completer.
func NewSession(completer Completer) *Session {
	return &Session{completer: completer, messages: nil}
}

// Reset replaces the transcript with a single localized assistant greeting.
// It is called whenever the active detection result or language changes.
func (s *Session) Reset(disease string, lang language.Language) {
	s.messages = []Message{{
		Role: RoleModel,
		Text: fmt.Sprintf(lang.GreetingFormat(), disease),
	}}
}

// Messages returns a copy of the transcript in order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Restore replaces the transcript wholesale, e.g. when rehydrating from
// session storage between requests.
func (s *Session) Restore(messages []Message) {
	s.messages = append([]Message(nil), messages...)
}

// Send appends the user message optimistically, exchanges it with the
// assistant, and appends the reply. On failure a model-role message with the
// human-readable error is appended so the conversation flow is preserved, and
// the error is returned.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	history := s.Messages()
	s.messages = append(s.messages, Message{Role: RoleUser, Text: text})

	reply, err := s.completer.Complete(ctx, text, history)
	if err != nil {
		s.messages = append(s.messages, Message{Role: RoleModel, Text: err.Error()})
		return "", err
	}

	s.messages = append(s.messages, Message{Role: RoleModel, Text: reply})
	return reply, nil
}
