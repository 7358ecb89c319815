package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"active", "suspended", "blocked", "inactive"} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseStatus("deleted")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("business")
	assert.NoError(t, err)
	assert.Equal(t, PlanBusiness, p)

	_, err = ParsePlan("enterprise")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestParseMessageRole(t *testing.T) {
	_, err := ParseMessageRole("assistant")
	assert.ErrorIs(t, err, ErrUnknownEnumValue)

	r, err := ParseMessageRole("model")
	assert.NoError(t, err)
	assert.Equal(t, MessageRoleModel, r)
}

func TestUserIsActive(t *testing.T) {
	u := &User{Status: StatusActive}
	assert.True(t, u.IsActive())

	for _, s := range []Status{StatusSuspended, StatusBlocked, StatusInactive} {
		u.Status = s
		assert.False(t, u.IsActive())
	}
}
