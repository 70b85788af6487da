package session

import (
	"context"
	"testing"

	"gorodskoybaton/bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreatesSessionLazily(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), sess.ChatID)
	assert.Equal(t, domain.StageIdle, sess.Stage)
	assert.Empty(t, sess.Cart)
}

func TestMemoryStorePersistsMutations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Get(ctx, 42)
	require.NoError(t, err)
	sess.Stage = domain.StageEnteringPhone
	sess.Cart = append(sess.Cart, domain.CartLine{ProductID: 1, Weight: "350г", UnitPrice: 45000, Quantity: 2})
	require.NoError(t, store.Save(ctx, sess))

	again, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StageEnteringPhone, again.Stage)
	require.Len(t, again.Cart, 1)
	assert.Equal(t, 2, again.Cart[0].Quantity)
}

func TestMemoryStoreIsolatesChats(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Get(ctx, 1)
	require.NoError(t, err)
	first.Stage = domain.StageConfirming
	require.NoError(t, store.Save(ctx, first))

	second, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StageIdle, second.Stage)
	assert.Equal(t, int64(2), second.ChatID)
}
