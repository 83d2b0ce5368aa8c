package hostbridge

// Version is the release reported by the CLI, the RPC server health check and the MCP server.
var Version = "0.1.0"
