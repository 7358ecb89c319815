package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/google/uuid"
)

const userColumns = "id, name, email, password_hash, role, status, active_plan, avatar_url, preferences, created_at"

// CreateUser inserts a new user. Role, status and plan default to
// user/active/free when unset.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if u.ActivePlan == "" {
		u.ActivePlan = models.PlanFree
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, active_plan, avatar_url, preferences, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Status), string(u.ActivePlan),
		u.AvatarURL, u.Preferences, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// HasEmail reports whether a user with this email already exists.
func (s *Store) HasEmail(ctx context.Context, email string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetUserByEmail returns the full user row, including the password hash,
// for credential checks.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetUserStatus reads only the status column. The auth gate calls this on
// every protected request so that blocking a user takes effect immediately.
func (s *Store) GetUserStatus(ctx context.Context, id string) (models.Status, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT status FROM users WHERE id = $1", id).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return models.ParseStatus(raw)
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUserRole sets the role of the target user.
func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	return s.updateUserField(ctx, id, "role", string(role))
}

// UpdateUserStatus sets the lifecycle status of the target user.
func (s *Store) UpdateUserStatus(ctx context.Context, id string, status models.Status) error {
	return s.updateUserField(ctx, id, "status", string(status))
}

// UpdateUserPlan sets the subscription plan of the target user.
func (s *Store) UpdateUserPlan(ctx context.Context, id string, plan models.Plan) error {
	return s.updateUserField(ctx, id, "active_plan", string(plan))
}

// UpdateUserPreferences sets the free-text assistant preferences.
func (s *Store) UpdateUserPreferences(ctx context.Context, id, preferences string) error {
	return s.updateUserField(ctx, id, "preferences", preferences)
}

func (s *Store) updateUserField(ctx context.Context, id, column, value string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET "+column+" = $1 WHERE id = $2", value, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateUserProfile updates name and/or avatar URL; empty arguments are
// left unchanged. Returns the updated row.
func (s *Store) UpdateUserProfile(ctx context.Context, id, name, avatarURL string) (*models.User, error) {
	if name != "" {
		if err := s.updateUserField(ctx, id, "name", name); err != nil {
			return nil, err
		}
	}
	if avatarURL != "" {
		if err := s.updateUserField(ctx, id, "avatar_url", avatarURL); err != nil {
			return nil, err
		}
	}
	return s.GetUserByID(ctx, id)
}

// DeleteUser removes the user; owned chats, messages and plans cascade.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u, err := scanUserRows(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func scanUserRows(row rowScanner) (*models.User, error) {
	var u models.User
	var role, status, plan string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &status, &plan,
		&u.AvatarURL, &u.Preferences, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role, err = models.ParseRole(role); err != nil {
		return nil, err
	}
	if u.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	if u.ActivePlan, err = models.ParsePlan(plan); err != nil {
		return nil, err
	}
	return &u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
