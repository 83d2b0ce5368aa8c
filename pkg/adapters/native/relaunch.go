package native

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.Relauncher = (*Relauncher)(nil)

// Relauncher starts a fresh copy of the running executable with the same arguments and
// then exits the current process.
type Relauncher struct {
	executable func() (string, error)
	args       []string
	start      func(*exec.Cmd) error
	exit       func(code int)
}

// RelaunchOption configures the relauncher.
type RelaunchOption func(*Relauncher)

// WithExit replaces os.Exit, for tests or hosts that need to clean up first.
func WithExit(exit func(code int)) RelaunchOption {
	return func(r *Relauncher) {
		r.exit = exit
	}
}

// WithStarter replaces (*exec.Cmd).Start.
func WithStarter(start func(*exec.Cmd) error) RelaunchOption {
	return func(r *Relauncher) {
		r.start = start
	}
}

// NewRelauncher creates a relauncher for the current process.
func NewRelauncher(opts ...RelaunchOption) *Relauncher {
	r := &Relauncher{
		executable: os.Executable,
		args:       os.Args[1:],
		start:      (*exec.Cmd).Start,
		exit:       os.Exit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Relaunch does not return on success.
func (r *Relauncher) Relaunch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	exe, err := r.executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	cmd := exec.Command(exe, r.args...)
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := r.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", exe, err)
	}
	r.exit(0)
	return nil
}
