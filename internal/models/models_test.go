package models_test

import (
	"encoding/json"
	"testing"

	"task-tracker/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User_1@Example.COM", "user_1@example.com"},
		{"  user_1@example.com  ", "user_1@example.com"},
		{"user_1@example.com", "user_1@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, models.NormalizeEmail(tt.in))
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := models.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "user_1@example.com",
		PasswordHash: "$2a$10$secret",
		FirstName:    "F_name",
		LastName:     "L_name",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password_hash")
	assert.NotContains(t, string(raw), "secret")
	assert.Equal(t, "user_1@example.com", fields["email"])
}

func TestUserFullName(t *testing.T) {
	user := models.User{FirstName: "F_name", LastName: "L_name"}
	assert.Equal(t, "F_name L_name", user.FullName())
}

func TestUserIsAdmin(t *testing.T) {
	assert.False(t, (&models.User{IsStaff: true}).IsAdmin())
	assert.True(t, (&models.User{IsSuperuser: true}).IsAdmin())
	assert.False(t, (&models.User{}).IsAdmin())
}

func TestTaskJSONOwnerField(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	task := models.Task{
		ID:      uuid.Must(uuid.NewV4()),
		OwnerID: owner,
		Title:   "Task 1",
	}

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, owner.String(), fields["owner"])
	assert.Equal(t, false, fields["done"])
}
