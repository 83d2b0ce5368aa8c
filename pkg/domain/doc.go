/*
Package domain contains the shared types of the hostbridge abstraction layer.

It defines the wire envelope of a command call, the error taxonomy every transport
reports through, event and dialog types, and persisted settings. This package is
kept free of I/O so that both the embedded and the networked sides can depend on it.

# Key Entities

  - Request / Response: the {cmd, args} call and its {success, data, error} reply.
  - Error: a classified failure (transport, protocol, command, unsupported capability).
  - Event: a named, backend-pushed payload delivered to subscribers.
  - DialogOptions: configuration for open/save file pickers.
*/
package domain
