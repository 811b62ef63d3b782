package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyService    = "service"
	KeyPractice   = "practice_id"
	KeyEndpoint   = "endpoint"
	KeyMethod     = "method"
	KeyStatusCode = "status_code"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
	KeyTraceID    = "trace_id"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Service returns a slog attribute for the service name.
func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// TraceID returns a slog attribute for the trace a log line belongs to.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// PracticeID returns a slog attribute for the athenahealth practice.
func PracticeID(id string) slog.Attr {
	return slog.String(KeyPractice, id)
}

// Endpoint returns a slog attribute for an upstream endpoint.
// Path identifiers are replaced so appointment ids do not end up in logs.
func Endpoint(endpoint string) slog.Attr {
	return slog.String(KeyEndpoint, NormalizeEndpoint(endpoint))
}

// Method returns a slog attribute for an HTTP method.
func Method(method string) slog.Attr {
	return slog.String(KeyMethod, method)
}

// StatusCode returns a slog attribute for an HTTP status code.
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes (like JWT headers) can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// NormalizeEndpoint replaces every path segment after the first with "{id}",
// e.g. "/appointments/123" becomes "/appointments/{id}". Segments that are
// known sub-resources are kept.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.SplitN(endpoint, "?", 2)[0]
	parts := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		return "/"
	}
	for i := 1; i < len(parts); i++ {
		if _, ok := knownSubResources[parts[i]]; !ok {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

var knownSubResources = map[string]struct{}{
	"open": {},
}
