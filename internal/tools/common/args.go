package common

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ArgAppointmentID is the argument naming the appointment a tool acts on.
const ArgAppointmentID = "appointment_id"

// StringArg returns args[key] when it is a string, or "".
func StringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// ResultText joins the text content of a tool result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}
