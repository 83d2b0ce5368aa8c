// Package capability exposes host capabilities (paths, fetch, open, file I/O, dialogs,
// updates) behind one signature per capability. Each has a native implementation backed by
// host collaborators and a networked fallback backed by the page window; New chooses
// between them once.
package capability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/ports"
)

const (
	// DefaultSettleDelay is how long the fallback open dialog waits after focus returns
	// before deciding the user cancelled.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultAppDataPlaceholder is returned as the app data directory in the networked fallback.
	DefaultAppDataPlaceholder = "/app-data"
)

// Capability names used in unsupported errors.
const (
	CapPaths    = "paths"
	CapFetch    = "fetch"
	CapOpen     = "shell open"
	CapReadFile = "file read"
	CapWrite    = "file write"
	CapMkdir    = "directory creation"
	CapDialog   = "file dialog"
	CapUpdate   = "update check"
	CapRelaunch = "relaunch"
)

// Set holds the implementation chosen for each capability.
type Set struct {
	Paths   Paths
	Fetch   Fetcher
	Opener  Opener
	Files   Files
	Dialogs Dialogs
	Updater Updater
}

// Option configures capability construction.
type Option func(*options)

type options struct {
	settleDelay time.Duration
	placeholder string
	httpClient  *http.Client
	logger      *slog.Logger
}

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.settleDelay = d
		}
	}
}

// WithAppDataPlaceholder overrides DefaultAppDataPlaceholder.
func WithAppDataPlaceholder(path string) Option {
	return func(o *options) {
		o.placeholder = path
	}
}

// WithHTTPClient sets the client used by the fallback fetcher.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds the capability set for desc. host is only consulted when embedded and
// window only when networked; either may be zero/nil, in which case the affected
// capabilities fail with an unsupported error.
func New(desc env.Descriptor, host ports.Host, window ports.Window, opts ...Option) *Set {
	o := &options{
		settleDelay: DefaultSettleDelay,
		placeholder: DefaultAppDataPlaceholder,
		httpClient:  http.DefaultClient,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if desc.IsEmbedded() {
		o.logger.Debug("Using native capabilities")
		return &Set{
			Paths:   &nativePaths{host: host.Paths},
			Fetch:   &nativeFetcher{host: host.Fetcher},
			Opener:  &nativeOpener{shell: host.Shell},
			Files:   &nativeFiles{fs: host.FS},
			Dialogs: &nativeDialogs{host: host.Dialogs},
			Updater: &nativeUpdater{source: host.Updates, process: host.Process},
		}
	}

	o.logger.Debug("Using networked capability fallbacks")
	return &Set{
		Paths:   &fallbackPaths{placeholder: o.placeholder},
		Fetch:   &fallbackFetcher{client: o.httpClient},
		Opener:  &fallbackOpener{window: window},
		Files:   fallbackFiles{},
		Dialogs: &fallbackDialogs{window: window, settle: o.settleDelay, logger: o.logger},
		Updater: &fallbackUpdater{window: window},
	}
}
