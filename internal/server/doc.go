// Package server provides the MCP server context and the HTTP plumbing for
// athena-mcp.
//
// # Key Components
//
// ServerContext carries the athenahealth client, the read-only flag and the
// optional metrics recorder and audit logger shared by every tool handler.
//
// HTTPServer serves the MCP streamable-http transport on /mcp together with
// health endpoints:
//   - /healthz: liveness, always 200 while the process serves
//   - /readyz: readiness, 503 during shutdown
//   - /healthz/detailed: JSON status including whether an upstream token is cached
//
// MetricsServer exposes Prometheus metrics on a dedicated port so they are
// not reachable through the MCP listener.
package server
