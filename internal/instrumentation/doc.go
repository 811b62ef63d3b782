// Package instrumentation provides OpenTelemetry instrumentation for athena-mcp.
//
// It covers:
//   - OpenTelemetry metrics for inbound HTTP, athenahealth API calls, token
//     exchanges and MCP tool invocations
//   - Distributed tracing for tool invocations and upstream requests
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//   - Structured audit records for every tool invocation
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// athenahealth API Metrics:
//   - athena_api_requests_total: Counter by method, normalized endpoint, status and status code
//   - athena_api_request_duration_seconds: Histogram of upstream request durations
//   - athena_token_refresh_total: Counter of client-credentials exchanges by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - athenahealth API calls ("athena <METHOD> <endpoint>")
//   - outbound HTTP requests through the otelhttp transport
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: athena-mcp)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIRequest(ctx, "GET", "/departments", 200, time.Since(start))
//	recorder.RecordToolInvocationWithPractice(ctx, "get_departments", "success", "195900", time.Since(start))
package instrumentation
