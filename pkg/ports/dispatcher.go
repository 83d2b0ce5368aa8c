package ports

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// Dispatcher routes a command request to its handler.
// Servers (HTTP, MCP) use it to expose the same commands the embedded channel serves.
type Dispatcher interface {
	Dispatch(ctx context.Context, req domain.Request) (any, error)

	// Commands lists the registered commands, sorted by name.
	Commands() []domain.CommandInfo
}
