package store

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to a
	// different owner. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Store provides owner-scoped access to users, chats, messages and plans.
type Store struct {
	db *sql.DB
}

// New wraps an open database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
