package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hostbridge/pkg/adapters/redis"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSettingsStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunSettingsStoreContract(t, store)
}

func TestRedisSettingsStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := redis.New(mr.Addr(), redis.WithPrefix("custom:app:"))
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Setting{Key: "theme", Value: "dark"}))

	assert.True(t, mr.Exists("custom:app:settings"), "Expected hash with custom prefix to exist")
	fields, err := mr.HKeys("custom:app:settings")
	require.NoError(t, err)
	assert.Contains(t, fields, "theme")
}

func TestRedisSettingsStore_PingFailsWhenDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	store := redis.New(mr.Addr())
	defer store.Close()
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestRedisSettingsStore_CorruptValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	mr.HSet(redis.DefaultPrefix+"settings", "bad", "{not json")
	store := redis.New(mr.Addr())
	defer store.Close()

	_, err = store.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "failed to decode setting bad")
}
