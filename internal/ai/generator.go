package ai

import (
	"context"
	"errors"
)

// Failure classes for external model calls. None of them is retried by the
// caller; the user message stays persisted and the user retries manually.
var (
	// ErrRateLimited means the provider rejected the call for quota reasons.
	ErrRateLimited = errors.New("model rate limited")
	// ErrProviderAuth means the API key is missing, invalid or unauthorized.
	ErrProviderAuth = errors.New("model provider authentication failed")
)

// Turn is one prior exchange passed back to the model as history.
// Role uses the provider vocabulary: "user" or "model".
type Turn struct {
	Role string
	Text string
}

// InlineImage is an image attachment sent alongside a message.
type InlineImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// Disabled is a Generator used when no API key is configured. Every call
// fails with ErrProviderAuth so the rest of the API keeps serving.
type Disabled struct{}

func (Disabled) Chat(context.Context, string, []Turn, string, *InlineImage) (string, error) {
	return "", ErrProviderAuth
}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrProviderAuth
}

// Generator is the boundary to the external conversational model.
type Generator interface {
	// Chat sends a message with full history under a standing system
	// instruction and returns the model's reply text. Single attempt only.
	Chat(ctx context.Context, systemInstruction string, history []Turn, message string, image *InlineImage) (string, error)

	// Generate runs a one-shot prompt with no history.
	Generate(ctx context.Context, prompt string) (string, error)
}
