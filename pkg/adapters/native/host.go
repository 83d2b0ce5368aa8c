package native

import (
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hostbridge/pkg/ports"
)

// DefaultFetchTimeout bounds host-mediated fetches.
const DefaultFetchTimeout = 60 * time.Second

// HostConfig selects what NewHost wires.
type HostConfig struct {
	AppName        string
	CurrentVersion string
	// UpdateRepo is "owner/repo"; empty disables update checks.
	UpdateRepo string
	Launchers  map[string]Launcher
}

// NewHost assembles the full set of native collaborators.
func NewHost(cfg HostConfig) ports.Host {
	runner := NewRunner(WithLaunchers(cfg.Launchers))
	host := ports.Host{
		Paths:   NewPaths(cfg.AppName),
		Fetcher: NewHTTPClient(DefaultFetchTimeout),
		Shell:   NewShell(runner),
		FS:      NewFS(),
		Dialogs: NewDialogs(runner),
		Process: NewRelauncher(),
	}
	if owner, repo, ok := splitRepo(cfg.UpdateRepo); ok {
		host.Updates = NewGitHubUpdater(owner, repo, cfg.CurrentVersion)
	}
	return host
}

// NewHTTPClient returns the client used for host-mediated fetches.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func splitRepo(s string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(s, "/")
	return owner, repo, found && owner != "" && repo != ""
}
