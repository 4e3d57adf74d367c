package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{ID: "u1", Role: RoleAdmin})

		id, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "u1", id.ID)
		assert.Equal(t, RoleAdmin, id.Role)
	})

	t.Run("absent identity", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		assert.False(t, ok)
	})
}
