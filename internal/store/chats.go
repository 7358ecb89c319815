package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/google/uuid"
)

// ListChats returns the caller's chats, most recently updated first.
func (s *Store) ListChats(ctx context.Context, ownerID string) ([]models.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, title, created_at, updated_at FROM chats WHERE user_id = $1 ORDER BY updated_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// GetChat returns the chat only when it exists and belongs to ownerID.
// A foreign or missing chat is the same ErrNotFound.
func (s *Store) GetChat(ctx context.Context, chatID, ownerID string) (*models.Chat, error) {
	var c models.Chat
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, created_at, updated_at FROM chats WHERE id = $1 AND user_id = $2",
		chatID, ownerID).
		Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChat inserts a new chat for ownerID.
func (s *Store) CreateChat(ctx context.Context, ownerID, title string) (*models.Chat, error) {
	now := time.Now().UTC()
	c := &models.Chat{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (id, user_id, title, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		c.ID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RenameChat sets a new title, owner-scoped.
func (s *Store) RenameChat(ctx context.Context, chatID, ownerID, title string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE chats SET title = $1, updated_at = $2 WHERE id = $3 AND user_id = $4",
		title, time.Now().UTC(), chatID, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// TouchChat bumps the chat's updated_at to now.
func (s *Store) TouchChat(ctx context.Context, chatID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE chats SET updated_at = $1 WHERE id = $2", time.Now().UTC(), chatID)
	return err
}

// DeleteChat removes the chat and its messages, owner-scoped.
func (s *Store) DeleteChat(ctx context.Context, chatID, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM chats WHERE id = $1 AND user_id = $2", chatID, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListMessages returns all messages of a chat in creation order. Ownership
// must be verified by the caller before reading messages.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, chat_id, role, content, created_at FROM messages WHERE chat_id = $1 ORDER BY created_at ASC",
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ChatID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Role, err = models.ParseMessageRole(role); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AppendMessage inserts one turn into a chat.
func (s *Store) AppendMessage(ctx context.Context, chatID string, role models.MessageRole, content string) (*models.Message, error) {
	m := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (id, chat_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)",
		m.ID, m.ChatID, string(m.Role), m.Content, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
