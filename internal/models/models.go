package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownEnumValue is returned when a stored string does not map to a
// known enum member. Callers must treat this as data drift, not default it away.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// Role is the authorization role of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored string onto a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: role %q", ErrUnknownEnumValue, s)
}

// Status is the lifecycle state of a user account.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusBlocked   Status = "blocked"
	StatusInactive  Status = "inactive"
)

// ParseStatus maps a stored string onto a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusSuspended, StatusBlocked, StatusInactive:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: status %q", ErrUnknownEnumValue, s)
}

// Plan is the subscription tier of a user account.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// ParsePlan maps a stored string onto a Plan.
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanFree, PlanPro, PlanBusiness:
		return Plan(s), nil
	}
	return "", fmt.Errorf("%w: plan %q", ErrUnknownEnumValue, s)
}

// User represents a user account.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never exposed to clients
	Role         Role      `json:"role" db:"role"`
	Status       Status    `json:"status" db:"status"`
	ActivePlan   Plan      `json:"active_plan" db:"active_plan"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Preferences  string    `json:"preferences,omitempty" db:"preferences"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsActive reports whether the account may use the API.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Chat is a conversation thread owned by exactly one user.
type Chat struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MessageRole identifies which side of the conversation authored a message.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleModel MessageRole = "model"
)

// ParseMessageRole maps a stored string onto a MessageRole.
func ParseMessageRole(s string) (MessageRole, error) {
	switch MessageRole(s) {
	case MessageRoleUser, MessageRoleModel:
		return MessageRole(s), nil
	}
	return "", fmt.Errorf("%w: message role %q", ErrUnknownEnumValue, s)
}

// Message is one turn in a chat. Messages are append-only.
type Message struct {
	ID        string      `json:"id" db:"id"`
	ChatID    string      `json:"chat_id" db:"chat_id"`
	Role      MessageRole `json:"role" db:"role"`
	Content   string      `json:"content" db:"content"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// BusinessPlan is an immutable snapshot of a generated plan.
type BusinessPlan struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Idea      string     `json:"idea" db:"idea"`
	Result    PlanResult `json:"result" db:"result"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PlanResult is the structured document produced by the plan generator.
type PlanResult struct {
	CompanyName             string          `json:"companyName"`
	Slogan                  string          `json:"slogan"`
	TargetAudience          TargetAudience  `json:"targetAudience"`
	MarketingStrategy       Marketing       `json:"marketingStrategy"`
	FinancialPlan           Financials      `json:"financialPlan"`
	CompetitiveDifferential Differential    `json:"competitiveDifferential"`
	SWOT                    SWOT            `json:"swot"`
	InvestorScore           InvestorScore   `json:"investorScore"`
	NextSteps               []string        `json:"nextSteps"`
}

type TargetAudience struct {
	Description  string   `json:"description"`
	Demographics string   `json:"demographics"`
	PainPoints   []string `json:"painPoints"`
}

type Marketing struct {
	Approach string   `json:"approach"`
	Channels []string `json:"channels"`
	Tactics  []string `json:"tactics"`
}

type Financials struct {
	InitialInvestment string   `json:"initialInvestment"`
	MonthlyRevenue    string   `json:"monthlyRevenue"`
	BreakEven         string   `json:"breakEven"`
	RevenueStreams    []string `json:"revenueStreams"`
	MainCosts         []string `json:"mainCosts"`
}

type Differential struct {
	Main   string   `json:"main"`
	Points []string `json:"points"`
}

type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type InvestorScore struct {
	OverallScore    float64 `json:"overallScore"`
	Evaluation      string  `json:"evaluation"`
	Recommendation  string  `json:"recommendation"`
	MarketPotential float64 `json:"marketPotential"`
	Feasibility     float64 `json:"feasibility"`
	Scalability     float64 `json:"scalability"`
	Risk            float64 `json:"risk"`
}
