/*
Package ports defines the driven ports (interfaces) of the hostbridge layer.

These interfaces decouple the invoker, the event bridge and the capability facades
from the concrete transports and hosts, so the same application code runs embedded in
a native host or as a networked client of a remote server.

# Key Interfaces

  - Channel: the private in-process call channel of the native host.
  - Transport: the networked call path (HTTP) returning the raw response body.
  - EventBus: the native event system used by the embedded event bridge.
  - Host: the native collaborators behind each capability (shell, fs, dialogs, ...).
  - Window: the page surface the networked fallbacks are built on.
  - Dispatcher: the server-side command router shared by HTTP and MCP adapters.
  - SettingsStore: persistence for the built-in settings commands.
*/
package ports
