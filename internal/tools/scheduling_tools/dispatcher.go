package scheduling_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/athena-mcp/internal/athena"
	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
)

// UnknownToolError is returned for a tool name that is not in the catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// Dispatcher routes tool calls to the athenahealth client.
type Dispatcher struct {
	client   *athena.Client
	readOnly bool
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher. In read-only mode the write tools are
// treated as unknown.
func NewDispatcher(client *athena.Client, readOnly bool, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Dispatcher{client: client, readOnly: readOnly, logger: logger}
}

// call decodes args into a request of type R and hands it to fn.
func call[R any](ctx context.Context, args map[string]any, fn func(context.Context, R) (json.RawMessage, error)) (json.RawMessage, error) {
	var req R
	if err := athena.Decode(args, &req); err != nil {
		return nil, err
	}
	return fn(ctx, req)
}

// Invoke validates args for the named tool and performs its single upstream
// request, returning the response body unchanged.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	if _, ok := lookup(name, d.readOnly); !ok {
		return nil, &UnknownToolError{Name: name}
	}

	switch name {
	case ToolGetAppointments:
		return call(ctx, args, d.client.GetAppointments)
	case ToolGetAvailableSlots:
		return call(ctx, args, d.client.GetAvailableSlots)
	case ToolCreateAppointment:
		return call(ctx, args, d.client.CreateAppointment)
	case ToolUpdateAppointment:
		return call(ctx, args, d.client.UpdateAppointment)
	case ToolCancelAppointment:
		return call(ctx, args, d.client.CancelAppointment)
	case ToolGetProviders:
		return call(ctx, args, d.client.GetProviders)
	case ToolGetDepartments:
		return d.client.GetDepartments(ctx)
	case ToolGetAppointmentTypes:
		return call(ctx, args, d.client.GetAppointmentTypes)
	case ToolSearchPatients:
		return call(ctx, args, d.client.SearchPatients)
	}
	return nil, &UnknownToolError{Name: name}
}

// Handler returns the mcp-go handler for the named tool.
//
// Every failure becomes a tool error result with the text "Error: <message>";
// the returned Go error is always nil so the client sees the message.
func (d *Dispatcher) Handler(name string) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := d.Invoke(ctx, name, request.GetArguments())
		if err != nil {
			return d.failed(ctx, name, err), nil
		}

		text, err := indent(raw)
		if err != nil {
			return d.failed(ctx, name, err), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func (d *Dispatcher) failed(ctx context.Context, name string, err error) *mcp.CallToolResult {
	attrs := []interface{}{logging.Tool(name), logging.Err(err)}
	if traceID := instrumentation.GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, logging.TraceID(traceID))
	}
	d.logger.Error("tool call failed", attrs...)
	return mcp.NewToolResultError("Error: " + err.Error())
}

// indent pretty-prints raw with two spaces, keeping the upstream key order.
func indent(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format response: %w", err)
	}
	return buf.String(), nil
}
