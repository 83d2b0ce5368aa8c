package invoke

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/ports"
)

var (
	// ErrNoChannel is returned by New when the environment is embedded but no channel was given.
	ErrNoChannel = errors.New("embedded invoker requires a channel")
	// ErrNoTransport is returned by New when the environment is networked but no transport was given.
	ErrNoTransport = errors.New("networked invoker requires a transport")
)

// Recorder observes completed invocations (e.g. metrics).
type Recorder interface {
	ObserveInvoke(cmd, mode string, elapsed time.Duration, err error)
}

// Invoker sends named commands to whichever transport the environment selects.
// It keeps no per-call state: concurrent calls are independent and settle in any order.
type Invoker struct {
	env       env.Descriptor
	channel   ports.Channel
	transport ports.Transport
	logger    *slog.Logger
	recorder  Recorder
}

// Option configures the invoker.
type Option func(*Invoker)

// WithChannel sets the embedded call channel.
func WithChannel(ch ports.Channel) Option {
	return func(i *Invoker) {
		i.channel = ch
	}
}

// WithTransport sets the networked transport.
func WithTransport(t ports.Transport) Option {
	return func(i *Invoker) {
		i.transport = t
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) {
		i.logger = logger
	}
}

// WithRecorder configures an observer for completed calls.
func WithRecorder(r Recorder) Option {
	return func(i *Invoker) {
		i.recorder = r
	}
}

// New creates an invoker bound to desc. The transport for the active environment is required.
func New(desc env.Descriptor, opts ...Option) (*Invoker, error) {
	i := &Invoker{
		env:    desc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if desc.IsEmbedded() && i.channel == nil {
		return nil, ErrNoChannel
	}
	if !desc.IsEmbedded() && i.transport == nil {
		return nil, ErrNoTransport
	}
	return i, nil
}

// Env returns the descriptor the invoker was built with.
func (i *Invoker) Env() env.Descriptor { return i.env }

// Invoke runs command name with args and returns its normalized result.
//
// Embedded calls go through the channel and its value or error is returned untouched.
// Networked calls go through the transport and the body is passed through Normalize.
// There is no retry and no timeout beyond what ctx carries.
func (i *Invoker) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	start := time.Now()

	var (
		result any
		err    error
	)
	if i.env.IsEmbedded() {
		result, err = i.channel.Call(ctx, name, args)
	} else {
		var raw any
		raw, err = i.transport.Call(ctx, name, args)
		if err == nil {
			result, err = normalize(name, raw)
		}
	}

	elapsed := time.Since(start)
	if i.recorder != nil {
		i.recorder.ObserveInvoke(name, i.env.String(), elapsed, err)
	}
	if err != nil {
		i.logger.Debug("Invoke failed", "cmd", name, "mode", i.env.String(), "duration", elapsed, "error", err)
		return nil, err
	}
	i.logger.Debug("Invoke succeeded", "cmd", name, "mode", i.env.String(), "duration", elapsed)
	return result, nil
}

// Result is the outcome of an asynchronous call. Exactly one of Value and Err is meaningful.
type Result struct {
	Value any
	Err   error
}

// Go runs Invoke on its own goroutine. The returned channel receives exactly one Result
// and is then closed.
func (i *Invoker) Go(ctx context.Context, name string, args map[string]any) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		v, err := i.Invoke(ctx, name, args)
		out <- Result{Value: v, Err: err}
	}()
	return out
}
