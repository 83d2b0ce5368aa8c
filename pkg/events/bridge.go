// Package events lets application code subscribe to and emit named backend events
// without knowing whether a native event system exists.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// ErrNoBus is returned by New when the environment is embedded but no bus was given.
var ErrNoBus = errors.New("embedded event bridge requires an event bus")

// Bridge is the event contract shared by both environments.
type Bridge interface {
	// Listen registers handler for name. Calling the returned function stops delivery;
	// calling it again is harmless.
	Listen(ctx context.Context, name string, handler domain.Handler) (domain.UnlistenFunc, error)

	// Emit sends payload to listeners of name.
	Emit(ctx context.Context, name string, payload any) error
}

// Option configures a bridge.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New picks the implementation for desc once. bus is required when embedded and ignored
// otherwise.
func New(desc env.Descriptor, bus ports.EventBus, opts ...Option) (Bridge, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if !desc.IsEmbedded() {
		return &Fallback{logger: cfg.logger}, nil
	}
	if bus == nil {
		return nil, ErrNoBus
	}
	return &Native{bus: bus, logger: cfg.logger}, nil
}

// Native forwards to the host's event system.
type Native struct {
	bus    ports.EventBus
	logger *slog.Logger
}

func (n *Native) Listen(ctx context.Context, name string, handler domain.Handler) (domain.UnlistenFunc, error) {
	unlisten, err := n.bus.Listen(ctx, name, handler)
	if err != nil {
		return nil, err
	}
	n.logger.Debug("Listening for event", "event", name)
	return unlisten, nil
}

func (n *Native) Emit(ctx context.Context, name string, payload any) error {
	return n.bus.Emit(ctx, name, payload)
}

// Fallback has no event source. Listening and emitting succeed and do nothing; a warning
// naming the event is logged the first time each name is seen.
type Fallback struct {
	logger  *slog.Logger
	listens sync.Map // event name -> struct{}
	emits   sync.Map
}

// NewFallback returns the networked bridge directly.
func NewFallback(logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{logger: logger}
}

func (f *Fallback) Listen(_ context.Context, name string, _ domain.Handler) (domain.UnlistenFunc, error) {
	if _, seen := f.listens.LoadOrStore(name, struct{}{}); !seen {
		f.logger.Warn("Event listening is not available outside the native host", "event", name)
	}
	return domain.NoopUnlisten, nil
}

func (f *Fallback) Emit(_ context.Context, name string, _ any) error {
	if _, seen := f.emits.LoadOrStore(name, struct{}{}); !seen {
		f.logger.Warn("Event emission is not available outside the native host", "event", name)
	}
	return nil
}
