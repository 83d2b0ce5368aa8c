package ports

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// Channel is the private call channel available when embedded in the native host.
// It resolves to the command's return value or fails with the command's own error.
type Channel interface {
	Call(ctx context.Context, cmd string, args map[string]any) (any, error)
}

// Transport is the networked call path. It returns the decoded response body as-is;
// interpreting success/error markers is left to the caller.
type Transport interface {
	Call(ctx context.Context, cmd string, args map[string]any) (any, error)
}

// EventBus is the native event system.
type EventBus interface {
	// Listen registers handler for events named name until the returned function is called.
	Listen(ctx context.Context, name string, handler domain.Handler) (domain.UnlistenFunc, error)

	// Emit delivers payload to every current listener of name.
	Emit(ctx context.Context, name string, payload any) error
}
