package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.SettingsStore = (*SettingsStore)(nil)

// SettingsStore implements ports.SettingsStore in memory.
// Safe for concurrent use.
type SettingsStore struct {
	data map[string]domain.Setting
	mu   sync.RWMutex
	now  func() time.Time
}

// NewSettingsStore creates an empty in-memory store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		data: make(map[string]domain.Setting),
		now:  time.Now,
	}
}

// Get returns a copy of the stored setting.
func (s *SettingsStore) Get(ctx context.Context, key string) (domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, ok := s.data[key]
	if !ok {
		return domain.Setting{}, domain.ErrSettingNotFound
	}
	return setting, nil
}

// Save stamps UpdatedAt and stores the setting.
func (s *SettingsStore) Save(ctx context.Context, setting domain.Setting) error {
	setting.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[setting.Key] = setting
	return nil
}

// Delete removes the setting.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns all settings sorted by key.
func (s *SettingsStore) List(ctx context.Context) ([]domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := make([]domain.Setting, 0, len(s.data))
	for _, setting := range s.data {
		settings = append(settings, setting)
	}
	slices.SortFunc(settings, func(a, b domain.Setting) int {
		return strings.Compare(a.Key, b.Key)
	})
	return settings, nil
}

// Ping always succeeds.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
