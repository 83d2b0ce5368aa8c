package native

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher names known to the host.
const (
	LauncherOpen   = "open"
	LauncherDialog = "dialog"
)

// ErrLauncherNotRegistered is returned when a launcher name is not in the allow-list.
var ErrLauncherNotRegistered = errors.New("launcher not registered")

// Launcher is an allowed external program and its fixed leading arguments.
type Launcher struct {
	Command string   `yaml:"command" json:"command"`
	Args    []string `yaml:"args" json:"args"`
}

// ExitError is returned when a launcher ran and exited non-zero.
type ExitError struct {
	Launcher string
	Code     int
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d: %s", e.Launcher, e.Code, e.Stderr)
}

// Runner executes allow-listed launchers.
type Runner struct {
	registry map[string]Launcher
	baseDir  string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithLaunchers adds or replaces launchers, e.g. from the config file.
func WithLaunchers(launchers map[string]Launcher) RunnerOption {
	return func(r *Runner) {
		for name, l := range launchers {
			r.Register(name, l.Command, l.Args...)
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a runner pre-populated with the platform's default launchers.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{registry: DefaultLaunchers(runtime.GOOS)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultLaunchers returns the launchers used on goos.
func DefaultLaunchers(goos string) map[string]Launcher {
	launchers := map[string]Launcher{
		LauncherDialog: {Command: "zenity"},
	}
	switch goos {
	case "darwin":
		launchers[LauncherOpen] = Launcher{Command: "open"}
	case "windows":
		launchers[LauncherOpen] = Launcher{Command: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}}
	default:
		launchers[LauncherOpen] = Launcher{Command: "xdg-open"}
	}
	return launchers
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name, command string, args ...string) {
	r.registry[name] = Launcher{Command: command, Args: args}
}

// Run executes launcher name with extra arguments appended to its fixed ones and returns
// trimmed stdout. A non-zero exit is reported as *ExitError.
func (r *Runner) Run(ctx context.Context, name string, extra ...string) (string, error) {
	l, ok := r.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrLauncherNotRegistered, name)
	}

	args := append(append([]string{}, l.Args...), extra...)
	cmd := exec.CommandContext(ctx, l.Command, args...)
	cmd.Dir = r.baseDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{Launcher: name, Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
		}
		return "", fmt.Errorf("execution failed: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
