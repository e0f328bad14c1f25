package subscription_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emaillist/subscription"
)

func TestMemoryStore_OptIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()

	sub, created, err := store.OptIn(ctx, subscription.OptInParams{
		Email:    "a@example.com",
		ListName: "news",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, sub.Subscribed)
	assert.False(t, sub.Confirmed)
	firstSeen := sub.SubscribedAt

	accountID := uuid.New()
	sub, created, err = store.OptIn(ctx, subscription.OptInParams{
		Email:     "a@example.com",
		ListName:  "news",
		AccountID: &accountID,
		Confirmed: true,
	})
	require.NoError(t, err)
	assert.False(t, created, "second opt-in updates in place")
	assert.True(t, sub.Confirmed)
	require.NotNil(t, sub.AccountID)
	assert.Equal(t, accountID, *sub.AccountID)
	assert.Equal(t, firstSeen, sub.SubscribedAt, "creation timestamp never changes")
}

func TestMemoryStore_Find(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()

	_, err := store.Find(ctx, "a@example.com", "news")
	assert.ErrorIs(t, err, subscription.ErrNotFound)

	_, _, err = store.OptIn(ctx, subscription.OptInParams{Email: "a@example.com", ListName: "news"})
	require.NoError(t, err)

	sub, err := store.Find(ctx, "a@example.com", "news")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", sub.Email)

	// Same email, different list is a distinct pair.
	_, err = store.Find(ctx, "a@example.com", "digest")
	assert.ErrorIs(t, err, subscription.ErrNotFound)
}

func TestMemoryStore_Find_ReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()
	_, _, err := store.OptIn(ctx, subscription.OptInParams{Email: "a@example.com", ListName: "news"})
	require.NoError(t, err)

	sub, err := store.Find(ctx, "a@example.com", "news")
	require.NoError(t, err)
	sub.Subscribed = false

	again, err := store.Find(ctx, "a@example.com", "news")
	require.NoError(t, err)
	assert.True(t, again.Subscribed, "mutating a returned record must not affect the store")
}

func TestMemoryStore_OptOut_PreservesConfirmationAndAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()
	accountID := uuid.New()

	_, _, err := store.OptIn(ctx, subscription.OptInParams{
		Email:     "a@example.com",
		ListName:  "news",
		AccountID: &accountID,
		Confirmed: true,
	})
	require.NoError(t, err)

	sub, err := store.OptOut(ctx, "a@example.com", "news")
	require.NoError(t, err)
	assert.False(t, sub.Subscribed)
	assert.True(t, sub.Unsubscribed)
	assert.True(t, sub.Confirmed)
	require.NotNil(t, sub.AccountID)
	assert.Equal(t, accountID, *sub.AccountID)
}

func TestMemoryStore_Confirm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := subscription.NewMemoryStore()

	// Unknown pair: silently does nothing.
	require.NoError(t, store.Confirm(ctx, "a@example.com", "news"))

	_, _, err := store.OptIn(ctx, subscription.OptInParams{Email: "a@example.com", ListName: "news"})
	require.NoError(t, err)
	require.NoError(t, store.Confirm(ctx, "a@example.com", "news"))

	sub, err := store.Find(ctx, "a@example.com", "news")
	require.NoError(t, err)
	assert.True(t, sub.Confirmed)
}
