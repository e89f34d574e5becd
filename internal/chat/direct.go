package chat

import (
	"context"
	"github.com/myrjola/agrolens/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// systemPrompt mirrors the assistant persona of the hosted backend so direct
// mode behaves the same as talking through it.
const systemPrompt = `You are AgroLens, a helpful and professional agricultural assistant. You are chatting with a user about a plant disease diagnosis they just received. Provide clear, concise, and safe advice.
IMPORTANT: chat with the user in a friendly manner, but do NOT provide any medical advice. Always recommend consulting a professional agronomist or plant pathologist for treatment decisions.
IMPORTANT: Chat with the user in the language they used to ask their question.`

const maxTokens = 4096

// DirectCompleter talks straight to the language model through its
// OpenAI-compatible endpoint when no chat backend is deployed.
type DirectCompleter struct {
	client *openai.Client
	model  string
}

// NewDirectCompleter creates a completer against an OpenAI-compatible
// endpoint. baseURL may point at a non-OpenAI host such as the Gemini
// compatibility surface.
func NewDirectCompleter(apiKey, baseURL, model string) *DirectCompleter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &DirectCompleter{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *DirectCompleter) Complete(ctx context.Context, message string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: maxTokens,
			Messages:  messages,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion has no choices").Wrap(ErrUnexpectedFormat)
	}
	return completion.Choices[0].Message.Content, nil
}
