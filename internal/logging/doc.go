// Package logging provides structured logging utilities for athena-mcp.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Endpoint normalization so identifiers stay out of log lines
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "athena.request")
//	logger.Info("request completed",
//	    logging.Endpoint("/appointments/123"),
//	    logging.Status("success"))
//
// # Security Considerations
//
// Bearer tokens and client secrets are never logged directly; use
// SanitizeToken when a token needs to be referenced.
package logging
