package ports

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// SettingsStore persists key/value settings for the built-in commands.
type SettingsStore interface {
	// Get returns domain.ErrSettingNotFound if key does not exist.
	Get(ctx context.Context, key string) (domain.Setting, error)

	// Save creates or replaces the setting with the same key.
	Save(ctx context.Context, setting domain.Setting) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every setting sorted by key.
	List(ctx context.Context) ([]domain.Setting, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}
