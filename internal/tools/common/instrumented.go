package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/server"
)

// ToolHandler is the handler signature expected by mcp-go's AddTool.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandlerWithService wraps a tool handler with tracing,
// metrics and audit logging, recording the upstream service and operation
// type on the span and audit record.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", instrumentation.ServiceAthena, "list", sc, handler))
//
// A result with IsError set counts as a failed invocation even though the
// handler returned a nil error.
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		practiceID := ""
		if client := sc.AthenaClient(); client != nil {
			practiceID = client.PracticeID()
		}
		resourceID := StringArg(request.GetArguments(), ArgAppointmentID)

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithService(serviceName).
			WithPractice(practiceID).
			WithReadOnly(sc.ReadOnly())
		if operation != "" {
			attrs.WithOperation(operation)
		}
		if resourceID != "" {
			attrs.WithResource("appointment", resourceID)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(serviceName, operation).
			WithPractice(practiceID).
			WithResource(resourceID)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			resultErr := errors.New(ResultText(result))
			invocation.CompleteWithError(resultErr)
			instrumentation.SetSpanError(span, resultErr)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		// Both are nil-safe.
		sc.Metrics().RecordToolInvocationWithPractice(ctx, toolName, status, practiceID, duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}
