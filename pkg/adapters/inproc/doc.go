// Package inproc implements the embedded transport: a command registry that serves as
// the native host's private call channel, and an in-process event bus.
//
// The same Registry is handed to the HTTP and MCP servers as their ports.Dispatcher,
// so a command behaves identically whether it is called in-process or over the network.
package inproc
