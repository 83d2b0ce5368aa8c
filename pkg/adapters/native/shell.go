package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.ShellOpener = (*Shell)(nil)

// Shell opens URLs and paths with the desktop's default handler.
type Shell struct {
	runner *Runner
}

// NewShell creates a Shell backed by runner's "open" launcher.
func NewShell(runner *Runner) *Shell {
	return &Shell{runner: runner}
}

func (s *Shell) Open(ctx context.Context, target string) error {
	if target == "" {
		return errors.New("open target is empty")
	}
	if _, err := s.runner.Run(ctx, LauncherOpen, target); err != nil {
		return fmt.Errorf("failed to open %q: %w", target, err)
	}
	return nil
}
