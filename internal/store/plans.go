package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/google/uuid"
)

// CreatePlan persists a generated business plan snapshot.
func (s *Store) CreatePlan(ctx context.Context, userID, idea string, result models.PlanResult) (*models.BusinessPlan, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	p := &models.BusinessPlan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Idea:      idea,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO business_plans (id, user_id, idea, result, created_at) VALUES ($1, $2, $3, $4, $5)",
		p.ID, p.UserID, p.Idea, string(raw), p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans returns the caller's plans, newest first, capped at 50.
func (s *Store) ListPlans(ctx context.Context, userID string) ([]models.BusinessPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, idea, result, created_at FROM business_plans WHERE user_id = $1 ORDER BY created_at DESC LIMIT 50",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.BusinessPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// GetPlan returns the plan only when it exists and belongs to userID.
func (s *Store) GetPlan(ctx context.Context, id, userID string) (*models.BusinessPlan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, idea, result, created_at FROM business_plans WHERE id = $1 AND user_id = $2",
		id, userID)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPlan(row rowScanner) (*models.BusinessPlan, error) {
	var p models.BusinessPlan
	var raw string
	if err := row.Scan(&p.ID, &p.UserID, &p.Idea, &raw, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &p.Result); err != nil {
		return nil, err
	}
	return &p, nil
}
