package hostbridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/hostbridge/pkg/adapters/httprpc"
	"github.com/aretw0/hostbridge/pkg/capability"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/events"
	"github.com/aretw0/hostbridge/pkg/invoke"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// DefaultAPIBase is the server address used by networked bridges when none is configured.
const DefaultAPIBase = "http://localhost:3000/api"

// Bridge is the composition root: one environment, one invoker, one event bridge
// and one capability set, all built once in New.
type Bridge struct {
	env     env.Descriptor
	invoker *invoke.Invoker
	events  events.Bridge
	caps    *capability.Set
	logger  *slog.Logger
}

// Option configures a Bridge.
type Option func(*config)

type config struct {
	env        *env.Descriptor
	channel    ports.Channel
	transport  ports.Transport
	bus        ports.EventBus
	apiBase    string
	httpClient *http.Client
	host       ports.Host
	window     ports.Window
	logger     *slog.Logger
	recorder   invoke.Recorder
	capOpts    []capability.Option
}

// WithEnvironment overrides environment detection.
func WithEnvironment(d env.Descriptor) Option {
	return func(c *config) {
		c.env = &d
	}
}

// WithChannel sets the private call channel used when embedded.
func WithChannel(ch ports.Channel) Option {
	return func(c *config) {
		c.channel = ch
	}
}

// WithTransport replaces the HTTP client transport used when networked.
func WithTransport(t ports.Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithEventBus sets the native event system used when embedded.
func WithEventBus(bus ports.EventBus) Option {
	return func(c *config) {
		c.bus = bus
	}
}

// WithAPIBase sets the server base URL for the default networked transport.
func WithAPIBase(base string) Option {
	return func(c *config) {
		c.apiBase = base
	}
}

// WithHTTPClient sets the client shared by the RPC transport and the networked fetch capability.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithHost sets the native host collaborators behind the capability facades.
func WithHost(h ports.Host) Option {
	return func(c *config) {
		c.host = h
	}
}

// WithWindow sets the page surface used by the networked capability fallbacks.
func WithWindow(w ports.Window) Option {
	return func(c *config) {
		c.window = w
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRecorder observes every Invoke (see observability.Metrics).
func WithRecorder(r invoke.Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithCapabilityOptions passes extra options to capability.New.
func WithCapabilityOptions(opts ...capability.Option) Option {
	return func(c *config) {
		c.capOpts = append(c.capOpts, opts...)
	}
}

// New resolves the environment once and wires the invoker, the event bridge and
// the capability facades for it.
func New(opts ...Option) (*Bridge, error) {
	c := &config{
		apiBase: DefaultAPIBase,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	desc := env.Detect()
	if c.env != nil {
		desc = *c.env
	}
	logger := c.logger.With("env", desc.String())

	invOpts := []invoke.Option{invoke.WithLogger(logger)}
	if c.recorder != nil {
		invOpts = append(invOpts, invoke.WithRecorder(c.recorder))
	}
	if desc.IsEmbedded() {
		invOpts = append(invOpts, invoke.WithChannel(c.channel))
	} else {
		transport := c.transport
		if transport == nil {
			clientOpts := []httprpc.Option{httprpc.WithLogger(logger)}
			if c.httpClient != nil {
				clientOpts = append(clientOpts, httprpc.WithHTTPClient(c.httpClient))
			}
			transport = httprpc.NewClient(c.apiBase, clientOpts...)
		}
		invOpts = append(invOpts, invoke.WithTransport(transport))
	}

	invoker, err := invoke.New(desc, invOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build invoker: %w", err)
	}

	ev, err := events.New(desc, c.bus, events.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build event bridge: %w", err)
	}

	capOpts := []capability.Option{capability.WithLogger(logger)}
	if c.httpClient != nil {
		capOpts = append(capOpts, capability.WithHTTPClient(c.httpClient))
	}
	capOpts = append(capOpts, c.capOpts...)

	logger.Debug("Bridge ready")
	return &Bridge{
		env:     desc,
		invoker: invoker,
		events:  ev,
		caps:    capability.New(desc, c.host, c.window, capOpts...),
		logger:  logger,
	}, nil
}

// Env reports the environment the bridge was built for.
func (b *Bridge) Env() env.Descriptor { return b.env }

// Invoke runs the named command. See invoke.Invoker.Invoke.
func (b *Bridge) Invoke(ctx context.Context, cmd string, args map[string]any) (any, error) {
	return b.invoker.Invoke(ctx, cmd, args)
}

// InvokeInto runs the named command and decodes its result into out.
func (b *Bridge) InvokeInto(ctx context.Context, cmd string, args map[string]any, out any) error {
	return b.invoker.InvokeInto(ctx, cmd, args, out)
}

// Invoker exposes the underlying invoker, for use with invoke.As.
func (b *Bridge) Invoker() *invoke.Invoker { return b.invoker }

// Listen subscribes handler to events named name.
func (b *Bridge) Listen(ctx context.Context, name string, handler domain.Handler) (domain.UnlistenFunc, error) {
	return b.events.Listen(ctx, name, handler)
}

// Emit sends a named event to the native host.
func (b *Bridge) Emit(ctx context.Context, name string, payload any) error {
	return b.events.Emit(ctx, name, payload)
}

// Capabilities returns the host capability facades.
func (b *Bridge) Capabilities() *capability.Set { return b.caps }
