package inproc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// HandlerFunc implements one command.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

type command struct {
	description string
	handler     HandlerFunc
}

// Registry maps command names to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]command
	logger   *slog.Logger
}

var (
	_ ports.Channel    = (*Registry)(nil)
	_ ports.Dispatcher = (*Registry)(nil)
)

// RegistryOption configures the registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report handler panics.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		commands: make(map[string]command),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name, description string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = command{description: description, handler: handler}
}

// Call runs the handler registered for cmd on the calling goroutine.
// A nil args map is replaced with an empty one; a panicking handler becomes an error.
func (r *Registry) Call(ctx context.Context, cmd string, args map[string]any) (result any, err error) {
	r.mu.RLock()
	c, ok := r.commands[cmd]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, cmd)
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Command handler panicked", "cmd", cmd, "panic", p)
			result, err = nil, fmt.Errorf("command %s panicked: %v", cmd, p)
		}
	}()
	return c.handler(ctx, args)
}

// Dispatch satisfies ports.Dispatcher.
func (r *Registry) Dispatch(ctx context.Context, req domain.Request) (any, error) {
	return r.Call(ctx, req.Cmd, req.Args)
}

// Commands lists registered commands sorted by name.
func (r *Registry) Commands() []domain.CommandInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CommandInfo, 0, len(r.commands))
	for name, c := range r.commands {
		out = append(out, domain.CommandInfo{Name: name, Description: c.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
