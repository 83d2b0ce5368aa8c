/*
Package observability provides Prometheus metrics for invocations and the RPC server.

Metrics live on a private registry owned by Metrics, so several instances (e.g. in tests)
never collide; Handler exposes that registry for scraping.
*/
package observability
