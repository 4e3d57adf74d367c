package auth

import (
	"testing"
	"time"

	"github.com/filmflow/filmflow/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswords(t *testing.T) {
	manager, err := NewManager(WithSecret("test-secret"))
	require.NoError(t, err)

	hash, err := manager.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, manager.VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, manager.VerifyPassword(hash, "wrong password"))
	assert.False(t, manager.VerifyPassword("not-a-hash", "anything"))
}

func TestTokens(t *testing.T) {
	manager, err := NewManager(WithSecret("test-secret"))
	require.NoError(t, err)

	t.Run("round trip preserves identity", func(t *testing.T) {
		token, err := manager.IssueToken(identity.Identity{ID: "u1", Role: identity.RoleAdmin})
		require.NoError(t, err)

		id, err := manager.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", id.ID)
		assert.Equal(t, identity.RoleAdmin, id.Role)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := manager.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other, err := NewManager(WithSecret("different-secret"))
		require.NoError(t, err)

		token, err := other.IssueToken(identity.Identity{ID: "u1", Role: identity.RoleUser})
		require.NoError(t, err)

		_, err = manager.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		shortLived, err := NewManager(WithSecret("test-secret"), WithTokenTTL(-time.Minute))
		require.NoError(t, err)

		token, err := shortLived.IssueToken(identity.Identity{ID: "u1", Role: identity.RoleUser})
		require.NoError(t, err)

		_, err = shortLived.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewManager(t *testing.T) {
	_, err := NewManager()
	assert.Error(t, err)
}
