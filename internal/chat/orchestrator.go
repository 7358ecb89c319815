package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"go.uber.org/zap"
)

const (
	maxTitleLen = 40

	// imageMarker is appended to the persisted user turn when an image was
	// attached. The image bytes themselves are not persisted.
	imageMarker = "[Imagem Anexada]"

	// imagePlaceholder stands in for an empty message with an attachment.
	imagePlaceholder = "Analise esta imagem."
)

// ErrEmptyMessage is returned when neither message text nor an image is given.
var ErrEmptyMessage = errors.New("message or image required")

// SendRequest is one user turn to process.
type SendRequest struct {
	ChatID  string
	Message string
	Image   *ai.InlineImage
}

// SendResult carries both persisted turns of a successful exchange.
type SendResult struct {
	ChatID           string          `json:"chatId"`
	UserMessage      *models.Message `json:"userMessage"`
	AssistantMessage *models.Message `json:"assistantMessage"`
}

// Orchestrator turns a new user message into a persisted exchange with the
// external model, personalized per user.
type Orchestrator struct {
	store     *store.Store
	generator ai.Generator
	log       *zap.Logger
}

// NewOrchestrator wires the conversation store and the model boundary.
func NewOrchestrator(st *store.Store, generator ai.Generator, log *zap.Logger) *Orchestrator {
	return &Orchestrator{store: st, generator: generator, log: log}
}

// SendMessage resolves the target chat, persists the user turn, invokes the
// model once, persists the reply and bumps the chat timestamp.
//
// The three writes are deliberately not wrapped in a transaction: when the
// model call fails, the already-persisted user turn stays visible so the
// user can retry without retyping.
func (o *Orchestrator) SendMessage(ctx context.Context, user *models.User, req SendRequest) (*SendResult, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" && req.Image == nil {
		return nil, ErrEmptyMessage
	}
	if message == "" {
		message = imagePlaceholder
	}

	// 1. Resolve target chat and load history.
	chatID := req.ChatID
	var history []models.Message
	if chatID != "" {
		if _, err := o.store.GetChat(ctx, chatID, user.ID); err != nil {
			return nil, err
		}
		msgs, err := o.store.ListMessages(ctx, chatID)
		if err != nil {
			return nil, err
		}
		history = msgs
	} else {
		chat, err := o.store.CreateChat(ctx, user.ID, deriveTitle(message))
		if err != nil {
			return nil, err
		}
		chatID = chat.ID
	}

	// 2. Persist the user turn before calling the model, so a model failure
	// never loses the input.
	content := message
	if req.Image != nil {
		content = message + "\n\n" + imageMarker
	}
	userMsg, err := o.store.AppendMessage(ctx, chatID, models.MessageRoleUser, content)
	if err != nil {
		return nil, err
	}

	// 3+4. Single model invocation, no retry.
	reply, err := o.generator.Chat(ctx, SystemInstruction(user), toTurns(history), message, req.Image)
	if err != nil {
		o.log.Warn("model call failed; user turn kept",
			zap.String("chat_id", chatID), zap.Error(err))
		return nil, fmt.Errorf("model call: %w", err)
	}

	// 5. Persist the model turn.
	modelMsg, err := o.store.AppendMessage(ctx, chatID, models.MessageRoleModel, reply)
	if err != nil {
		return nil, err
	}

	// 6. Bump the chat's freshness for list ordering.
	if err := o.store.TouchChat(ctx, chatID); err != nil {
		return nil, err
	}

	return &SendResult{
		ChatID:           chatID,
		UserMessage:      userMsg,
		AssistantMessage: modelMsg,
	}, nil
}

// deriveTitle takes the first 40 characters of the message, marking longer
// messages with an ellipsis.
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= maxTitleLen {
		return message
	}
	return string(runes[:maxTitleLen]) + "..."
}

func toTurns(history []models.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		// Stored roles already match the provider vocabulary (user/model).
		turns = append(turns, ai.Turn{Role: string(m.Role), Text: m.Content})
	}
	return turns
}
