package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Mask replaces the value of settings whose key matches a PII pattern.
const Mask = "***"

type piiMiddleware struct {
	next     ports.SettingsStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of keys matching the patterns
// before they reach the store. Masking is lossy: the original value is never persisted.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.SettingsStore) ports.SettingsStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, setting domain.Setting) error {
	for _, p := range m.patterns {
		if p.MatchString(setting.Key) {
			setting.Value = Mask
			break
		}
	}
	return m.next.Save(ctx, setting)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) (domain.Setting, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context) ([]domain.Setting, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) Ping(ctx context.Context) error {
	return m.next.Ping(ctx)
}
