package domain

import "encoding/json"

// Request is one command call, encoded on the wire as {"cmd": ..., "args": {...}}.
type Request struct {
	Cmd  string         `json:"cmd"`
	Args map[string]any `json:"args"`
}

// Response is the standard reply envelope written by the RPC server.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful command result. A nil result is kept as an explicit JSON null
// so clients unwrap it instead of receiving the envelope itself.
func OK(data any) Response {
	if data == nil {
		data = json.RawMessage("null")
	}
	return Response{Success: true, Data: data}
}

// Fail wraps a command failure.
func Fail(message string) Response {
	if message == "" {
		message = UnknownErrorMessage
	}
	return Response{Success: false, Error: message}
}

// CommandInfo describes a registered command for introspection.
type CommandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
