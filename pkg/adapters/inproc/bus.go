package inproc

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// DefaultBufferSize is the number of undelivered events queued per subscription.
const DefaultBufferSize = 64

var _ ports.EventBus = (*Bus)(nil)

// Bus is an in-process event system. Each subscription owns a buffered queue drained by
// its own goroutine, so Emit never blocks on a slow handler.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[uint64]*subscription // event name -> subscriptions
	nextSub     uint64
	nextEvent   atomic.Uint64
	bufferSize  int
	logger      *slog.Logger
}

type subscription struct {
	queue  chan domain.Event
	active atomic.Bool
}

// BusOption configures the bus.
type BusOption func(*Bus)

// WithBufferSize sets the per-subscription queue length.
func WithBufferSize(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.bufferSize = n
		}
	}
}

// WithBusLogger sets the logger used for dropped events.
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *Bus) {
		b.logger = logger
	}
}

// NewBus creates an event bus with no subscribers.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subscribers: make(map[string]map[uint64]*subscription),
		bufferSize:  DefaultBufferSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen registers handler for name. The returned function removes the subscription;
// events still queued for it are discarded, never delivered.
func (b *Bus) Listen(ctx context.Context, name string, handler domain.Handler) (domain.UnlistenFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{queue: make(chan domain.Event, b.bufferSize)}
	sub.active.Store(true)

	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	if _, ok := b.subscribers[name]; !ok {
		b.subscribers[name] = make(map[uint64]*subscription)
	}
	b.subscribers[name][id] = sub
	b.mu.Unlock()

	go func() {
		for evt := range sub.queue {
			if !sub.active.Load() {
				continue
			}
			handler(evt)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)

			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subscribers[name]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subscribers, name)
				}
			}
			close(sub.queue)
		})
	}, nil
}

// Emit queues payload for every listener of name.
func (b *Bus) Emit(ctx context.Context, name string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	evt := domain.Event{Name: name, ID: b.nextEvent.Add(1), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers[name] {
		select {
		case sub.queue <- evt:
		default:
			// Drop event if the queue is full (slow handler)
			b.logger.Warn("Event queue full, dropping event", "event", name, "id", evt.ID)
		}
	}
	return nil
}

// ListenerCount returns the number of live subscriptions for name.
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name])
}
