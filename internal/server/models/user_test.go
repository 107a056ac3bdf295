package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublic_OmitsCredentials(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{
		ID:           "u-1",
		Email:        "a@b.test",
		Salt:         []byte("salt"),
		PasswordHash: []byte("hash"),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	b, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "u-1", m["id"])
	assert.Equal(t, "a@b.test", m["email"])
	assert.Contains(t, m, "createdAt")
	assert.Contains(t, m, "updatedAt")
	assert.Len(t, m, 4)
}
