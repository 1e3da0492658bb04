package flags

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func TestStore_UpsertAndGet(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flag, err := store.Upsert(ctx, KeyQuotesEnabled, true)
	assert.NoError(t, err)
	require.NotNil(t, flag)
	assert.Equal(t, KeyQuotesEnabled, flag.Key)
	assert.True(t, flag.Value)
	assert.NotZero(t, flag.UpdatedAt)

	got, err := store.Get(ctx, KeyQuotesEnabled)
	assert.NoError(t, err)
	assert.Equal(t, flag.Key, got.Key)
	assert.Equal(t, flag.Value, got.Value)

	// Upsert again flips the value and bumps the timestamp.
	time.Sleep(time.Millisecond)
	flag2, err := store.Upsert(ctx, KeyQuotesEnabled, false)
	assert.NoError(t, err)
	assert.True(t, flag2.UpdatedAt.After(flag.UpdatedAt))

	got, err = store.Get(ctx, KeyQuotesEnabled)
	assert.NoError(t, err)
	assert.False(t, got.Value)
}

func TestStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	flag, err := store.Get(context.Background(), "nonexistent.flag")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, flag)
}

func TestStore_Enabled(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	// Absent flag falls back to the default, both ways.
	assert.True(t, store.Enabled(ctx, KeyQuotesEnabled, true))
	assert.False(t, store.Enabled(ctx, KeyQuotesEnabled, false))

	_, err = store.Upsert(ctx, KeyQuotesEnabled, false)
	require.NoError(t, err)
	assert.False(t, store.Enabled(ctx, KeyQuotesEnabled, true))
}

func TestStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Upsert(ctx, KeyRecordQuotes, true)
	require.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, KeyRecordQuotes))

	_, err = store.Get(ctx, KeyRecordQuotes)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing flag is not an error.
	assert.NoError(t, store.Delete(ctx, "nonexistent.flag"))
}

func TestStore_List(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flags, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, flags)

	want := map[string]bool{
		KeyQuotesEnabled:   true,
		KeyEnforceMinimum:  false,
		KeySimpleQuoteOnly: true,
	}
	for key, value := range want {
		_, err := store.Upsert(ctx, key, value)
		require.NoError(t, err)
	}

	flags, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, flags, len(want))

	got := make(map[string]bool)
	for _, f := range flags {
		got[f.Key] = f.Value
	}
	assert.Equal(t, want, got)
}

func TestStore_KeyValidation(t *testing.T) {
	client := setupTestRedis(t)
	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	for _, key := range []string{"quotes.enabled", "a", "flag_with-chars.123"} {
		_, err := store.Upsert(ctx, key, true)
		assert.NoError(t, err, "key %q should be valid", key)
	}

	for _, key := range []string{"", " ", "flag with spaces", "flag:with:colons", "flag\nnewline"} {
		_, err := store.Upsert(ctx, key, true)
		assert.Error(t, err, "key %q should be invalid", key)
	}
}
