// Package redis stores settings in a Redis hash.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "hostbridge:"

var _ ports.SettingsStore = (*SettingsStore)(nil)

// SettingsStore implements ports.SettingsStore on a single hash, "<prefix>settings",
// with one JSON-encoded field per key.
type SettingsStore struct {
	client *backend.Client
	prefix string
	now    func() time.Time
}

// Option configures the store.
type Option func(*SettingsStore)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *SettingsStore) {
		s.prefix = prefix
	}
}

// New connects to addr.
func New(addr string, opts ...Option) *SettingsStore {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *SettingsStore {
	s := &SettingsStore{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SettingsStore) hashKey() string {
	return s.prefix + "settings"
}

func (s *SettingsStore) Get(ctx context.Context, key string) (domain.Setting, error) {
	raw, err := s.client.HGet(ctx, s.hashKey(), key).Bytes()
	if errors.Is(err, backend.Nil) {
		return domain.Setting{}, domain.ErrSettingNotFound
	}
	if err != nil {
		return domain.Setting{}, fmt.Errorf("redis error loading setting %s: %w", key, err)
	}

	var setting domain.Setting
	if err := json.Unmarshal(raw, &setting); err != nil {
		return domain.Setting{}, fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return setting, nil
}

func (s *SettingsStore) Save(ctx context.Context, setting domain.Setting) error {
	setting.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(setting)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", setting.Key, err)
	}
	if err := s.client.HSet(ctx, s.hashKey(), setting.Key, raw).Err(); err != nil {
		return fmt.Errorf("redis error saving setting %s: %w", setting.Key, err)
	}
	return nil
}

func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.hashKey(), key).Err(); err != nil {
		return fmt.Errorf("redis error deleting setting %s: %w", key, err)
	}
	return nil
}

func (s *SettingsStore) List(ctx context.Context) ([]domain.Setting, error) {
	all, err := s.client.HGetAll(ctx, s.hashKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error listing settings: %w", err)
	}

	settings := make([]domain.Setting, 0, len(all))
	for key, raw := range all {
		var setting domain.Setting
		if err := json.Unmarshal([]byte(raw), &setting); err != nil {
			return nil, fmt.Errorf("failed to decode setting %s: %w", key, err)
		}
		settings = append(settings, setting)
	}
	slices.SortFunc(settings, func(a, b domain.Setting) int {
		return strings.Compare(a.Key, b.Key)
	})
	return settings, nil
}

func (s *SettingsStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *SettingsStore) Close() error {
	return s.client.Close()
}
