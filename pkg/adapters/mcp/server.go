// Package mcp exposes the command registry as Model Context Protocol tools, so agents can
// call the same commands the UI does.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CommandsURI is the resource listing registered commands.
const CommandsURI = "hostbridge://commands"

// Server wraps a dispatcher and exposes it as an MCP server.
type Server struct {
	dispatcher ports.Dispatcher
	mcpServer  *server.MCPServer
	logger     *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server reporting version.
func NewServer(d ports.Dispatcher, version string, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		mcpServer:  server.NewMCPServer("hostbridge-mcp", version),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("invoke_command",
		mcp.WithDescription("Invoke a registered command by name. Returns the command's JSON result."),
		mcp.WithString("cmd", mcp.Required(), mcp.Description("Command name, see list_commands")),
		mcp.WithObject("args", mcp.Description("Command arguments (optional)")),
	), s.handleInvoke)

	s.mcpServer.AddTool(mcp.NewTool("list_commands",
		mcp.WithDescription("List the registered commands with their descriptions."),
	), s.handleList)
}

func (s *Server) handleInvoke(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd, err := request.RequireString("cmd")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := map[string]any{}
	switch raw := request.GetArguments()["args"].(type) {
	case map[string]any:
		args = raw
	case string:
		// Some clients send objects as JSON text.
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("args is not a JSON object: %v", err)), nil
			}
		}
	}

	result, err := s.dispatcher.Dispatch(ctx, domain.Request{Cmd: cmd, Args: args})
	if err != nil {
		s.logger.Warn("MCP: Command failed", "cmd", cmd, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("result not encodable: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.dispatcher.Commands())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CommandsURI, "Registered Commands",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.dispatcher.Commands())
		if err != nil {
			return nil, fmt.Errorf("failed to encode commands: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CommandsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
