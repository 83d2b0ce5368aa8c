/*
Package hostbridge is a transport-agnostic command and capability layer.

Application code invokes named backend commands, listens to backend events and
uses host capabilities (paths, fetch, open, files, dialogs, updates) through one
contract. Whether a call travels over the private channel of a native host or
over HTTP to a remote server is decided once, when the Bridge is built.

# Environments

The process is embedded when the HOSTBRIDGE_IPC marker is present in its
environment (see pkg/env). Embedded bridges call a ports.Channel directly and
pass results through untouched. Networked bridges POST {"cmd","args"} to
<api-base>/rpc and normalize the response envelope.

# Usage

	bridge, err := hostbridge.New(hostbridge.WithAPIBase("http://localhost:3000/api"))
	if err != nil {
		log.Fatal(err)
	}

	greeting, err := bridge.Invoke(ctx, "greet", map[string]any{"name": "Ada"})

For an embedded host, register commands on an inproc.Registry and hand it to
the bridge together with the event bus:

	reg := inproc.NewRegistry()
	commands.Register(reg, memory.NewSettingsStore())
	bridge, err := hostbridge.New(
		hostbridge.WithEnvironment(env.Embedded()),
		hostbridge.WithChannel(reg),
		hostbridge.WithEventBus(inproc.NewBus()),
	)

# Errors

Failures are *domain.Error values. Use errors.Is with domain.ErrTransport,
domain.ErrProtocol, domain.ErrCommand or domain.ErrUnsupportedCapability to
branch on the kind.
*/
package hostbridge
