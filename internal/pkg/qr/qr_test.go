package qr

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anouarkehili/DADAGYM3/internal/model"
)

func TestGenerateUserQR(t *testing.T) {
	user := &model.User{
		ID:   "1736899200000_a1b2c3",
		Name: "ahmed",
		Role: model.RoleMember,
	}

	data := GenerateUserQR(user)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "1736899200000_a1b2c3", payload["id"])
	assert.Equal(t, "ahmed", payload["name"])
	assert.Equal(t, "member", payload["role"])
	assert.NotZero(t, payload["timestamp"])
}

func TestParseUserQR(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		user := &model.User{ID: "u1", Name: "sara", Role: model.RoleAdmin}
		data := GenerateUserQR(user)

		payload, err := ParseUserQR(data)
		require.NoError(t, err)
		assert.Equal(t, "u1", payload.ID)
		assert.Equal(t, "sara", payload.Name)
		assert.Equal(t, "admin", payload.Role)
		assert.WithinDuration(t, time.Now(), payload.IssuedAt(), 5*time.Second)
	})

	t.Run("not json", func(t *testing.T) {
		payload, err := ParseUserQR("not json")
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.Nil(t, payload)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		cases := []string{
			`{"id":"u1"}`,
			`{"id":"u1","name":"a","role":"member"}`,
			`{"name":"a","role":"member","timestamp":1736899200000}`,
			`{"id":"","name":"a","role":"member","timestamp":1736899200000}`,
			`{}`,
			`[]`,
			`42`,
		}
		for _, c := range cases {
			_, err := ParseUserQR(c)
			assert.ErrorIs(t, err, ErrInvalidPayload, "payload: %s", c)
		}
	})

	t.Run("gym payload is not a user payload", func(t *testing.T) {
		_, err := ParseUserQR(GenerateGymQR("DADA GYM"))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestParseGymQR(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		data := GenerateGymQR("DADA GYM")

		payload, err := ParseGymQR(data)
		require.NoError(t, err)
		assert.Equal(t, GymCheckInType, payload.Type)
		assert.Equal(t, "DADA GYM", payload.Gym)
		assert.NotZero(t, payload.Timestamp)
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		_, err := ParseGymQR(`{"type":"other","gym":"DADA GYM","timestamp":1736899200000}`)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("user payload is not a gym payload", func(t *testing.T) {
		user := &model.User{ID: "u1", Name: "sara", Role: model.RoleMember}
		_, err := ParseGymQR(GenerateUserQR(user))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestNewID(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		id := NewID()
		parts := strings.SplitN(id, "_", 2)
		require.Len(t, parts, 2)
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[1])
	})

	t.Run("unique across rapid calls", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id := NewID()
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %s", id)
			seen[id] = struct{}{}
		}
	})
}
