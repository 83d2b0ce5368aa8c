package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSettingsStoreContract runs a suite of tests to verify that a SettingsStore implementation
// adheres to the defined interface contract.
func RunSettingsStoreContract(t *testing.T, store SettingsStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405") + "-"

	t.Run("Save and Get", func(t *testing.T) {
		setting := domain.Setting{Key: prefix + "theme", Value: "dark", Category: "ui"}

		err := store.Save(ctx, setting)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Get(ctx, setting.Key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "dark", loaded.Value)
		assert.Equal(t, "ui", loaded.Category)
		assert.False(t, loaded.UpdatedAt.IsZero(), "Save should stamp UpdatedAt")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		key := prefix + "overwrite"
		require.NoError(t, store.Save(ctx, domain.Setting{Key: key, Value: "one"}))
		require.NoError(t, store.Save(ctx, domain.Setting{Key: key, Value: "two"}))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "two", loaded.Value)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"missing")
		assert.ErrorIs(t, err, domain.ErrSettingNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "delete"
		require.NoError(t, store.Save(ctx, domain.Setting{Key: key, Value: "x"}))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSettingNotFound, "Get after Delete should return ErrSettingNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting a missing key is not an error")
	})

	t.Run("List Sorted", func(t *testing.T) {
		keys := []string{prefix + "list-b", prefix + "list-a"}
		for _, k := range keys {
			require.NoError(t, store.Save(ctx, domain.Setting{Key: k, Value: k}))
		}
		defer func() {
			for _, k := range keys {
				_ = store.Delete(ctx, k)
			}
		}()

		settings, err := store.List(ctx)
		require.NoError(t, err)

		var listed []string
		for _, s := range settings {
			listed = append(listed, s.Key)
		}
		assert.Contains(t, listed, keys[0])
		assert.Contains(t, listed, keys[1])
		assert.IsNonDecreasing(t, listed, "List should be sorted by key")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

// RunEventBusContract verifies the delivery guarantees of an EventBus implementation.
// Delivery may be asynchronous, so assertions wait for a bounded time.
func RunEventBusContract(t *testing.T, bus EventBus) {
	ctx := context.Background()
	const wait = time.Second

	t.Run("Delivers To Listener", func(t *testing.T) {
		got := make(chan domain.Event, 1)
		unlisten, err := bus.Listen(ctx, "contract.deliver", func(e domain.Event) { got <- e })
		require.NoError(t, err)
		defer unlisten()

		require.NoError(t, bus.Emit(ctx, "contract.deliver", map[string]any{"n": 1}))

		select {
		case e := <-got:
			assert.Equal(t, "contract.deliver", e.Name)
			assert.Equal(t, map[string]any{"n": 1}, e.Payload)
		case <-time.After(wait):
			t.Fatal("event was not delivered")
		}
	})

	t.Run("Ignores Other Names", func(t *testing.T) {
		got := make(chan domain.Event, 1)
		unlisten, err := bus.Listen(ctx, "contract.a", func(e domain.Event) { got <- e })
		require.NoError(t, err)
		defer unlisten()

		require.NoError(t, bus.Emit(ctx, "contract.b", "x"))

		select {
		case e := <-got:
			t.Fatalf("unexpected delivery: %+v", e)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("No Delivery After Unlisten", func(t *testing.T) {
		var mu sync.Mutex
		calls := 0
		unlisten, err := bus.Listen(ctx, "contract.unlisten", func(domain.Event) {
			mu.Lock()
			calls++
			mu.Unlock()
		})
		require.NoError(t, err)

		unlisten()
		unlisten() // idempotent

		require.NoError(t, bus.Emit(ctx, "contract.unlisten", nil))
		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Zero(t, calls, "handler must not run after unlisten")
	})
}
