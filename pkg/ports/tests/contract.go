package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// DispatcherContractTest is a reusable test suite that verifies if an adapter complies with ports.Dispatcher.
// The dispatcher must have an "echo" command registered that returns its args unchanged.
func DispatcherContractTest(t *testing.T, d ports.Dispatcher) {
	t.Helper()
	ctx := context.Background()

	// 1. Dispatch (Success)
	t.Run("Dispatch_Success", func(t *testing.T) {
		got, err := d.Dispatch(ctx, domain.Request{Cmd: "echo", Args: map[string]any{"k": "v"}})
		if err != nil {
			t.Fatalf("unexpected error dispatching echo: %v", err)
		}
		m, ok := got.(map[string]any)
		if !ok || m["k"] != "v" {
			t.Errorf("echo mismatch: got %#v", got)
		}
	})

	// 2. Dispatch (Unknown)
	t.Run("Dispatch_Unknown", func(t *testing.T) {
		_, err := d.Dispatch(ctx, domain.Request{Cmd: "no-such-command"})
		if !errors.Is(err, domain.ErrUnknownCommand) {
			t.Errorf("expected ErrUnknownCommand, got %v", err)
		}
	})

	// 3. Commands
	t.Run("Commands", func(t *testing.T) {
		cmds := d.Commands()
		found := false
		for i, c := range cmds {
			if c.Name == "echo" {
				found = true
			}
			if i > 0 && cmds[i-1].Name > c.Name {
				t.Errorf("commands not sorted: %q before %q", cmds[i-1].Name, c.Name)
			}
		}
		if !found {
			t.Error("expected echo in command list")
		}
	})
}
