package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/chat"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type chatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListChatsHandler returns the caller's chats, newest-updated first.
func (api *Api) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	chats, err := api.store.ListChats(r.Context(), claims.UserID)
	if err != nil {
		api.internalError(w, "chat list failed", err)
		return
	}

	summaries := make([]chatSummary, 0, len(chats))
	for _, c := range chats {
		summaries = append(summaries, chatSummary{
			ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetChatHandler returns the messages of one owned chat.
func (api *Api) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	chatID := chi.URLParam(r, "id")

	if _, err := api.store.GetChat(r.Context(), chatID, claims.UserID); err != nil {
		api.chatError(w, err)
		return
	}

	messages, err := api.store.ListMessages(r.Context(), chatID)
	if err != nil {
		api.internalError(w, "message list failed", err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": chatID, "messages": messages})
}

type sendMessageRequest struct {
	ChatID  string          `json:"chatId"`
	Message string          `json:"message"`
	Image   *ai.InlineImage `json:"image"`
}

// SendMessageHandler feeds one user turn through the orchestrator.
func (api *Api) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	// Preferences live on the user row, not in the token.
	user, err := api.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		api.internalError(w, "user lookup failed", err)
		return
	}

	result, err := api.chats.SendMessage(r.Context(), user, chat.SendRequest{
		ChatID:  req.ChatID,
		Message: req.Message,
		Image:   req.Image,
	})
	if err != nil {
		api.sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RenameChatHandler sets a new title on an owned chat.
func (api *Api) RenameChatHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	chatID := chi.URLParam(r, "id")

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Título é obrigatório")
		return
	}

	if err := api.store.RenameChat(r.Context(), chatID, claims.UserID, strings.TrimSpace(req.Title)); err != nil {
		api.chatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteChatHandler removes an owned chat and its messages.
func (api *Api) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	chatID := chi.URLParam(r, "id")

	if err := api.store.DeleteChat(r.Context(), chatID, claims.UserID); err != nil {
		api.chatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// chatError translates chat lookup and mutation failures.
func (api *Api) chatError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Chat não encontrado")
		return
	}
	api.internalError(w, "chat operation failed", err)
}

// sendError translates orchestration failures into the response taxonomy.
// Model failures arrive after the user turn was persisted; they surface as
// 500s and the client retries manually.
func (api *Api) sendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "A mensagem ou imagem não pode estar vazia")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Chat não encontrado")
	case errors.Is(err, ai.ErrRateLimited):
		writeError(w, http.StatusInternalServerError,
			"Ops! Nossa cota de inteligência atingiu o limite por agora. Tente novamente em alguns minutos.")
	case errors.Is(err, ai.ErrProviderAuth):
		writeError(w, http.StatusInternalServerError,
			"Erro de autenticação com a IA. Verifique a chave de API.")
	default:
		api.log.Error("send failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError,
			"Falha ao comunicar com a IA. Tente novamente em instantes.")
	}
}
