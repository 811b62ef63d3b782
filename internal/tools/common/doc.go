// Package common provides shared utilities for MCP tool implementations:
// the instrumentation wrapper applied to every tool handler and small
// helpers for reading tool arguments and results.
package common
