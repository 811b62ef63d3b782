package scheduling_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/athena-mcp/internal/instrumentation"
	"github.com/teemow/athena-mcp/internal/logging"
	"github.com/teemow/athena-mcp/internal/server"
	"github.com/teemow/athena-mcp/internal/tools/common"
)

// RegisterSchedulingTools registers the scheduling tools with the MCP server.
// Write tools are skipped when readOnly is set.
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	client := sc.AthenaClient()
	if client == nil {
		return fmt.Errorf("athena client is not configured")
	}

	d := NewDispatcher(client, readOnly, logging.DefaultLogger())
	for _, ts := range toolSpecs {
		if readOnly && ts.write {
			continue
		}
		s.AddTool(ts.tool(), common.InstrumentedToolHandlerWithService(
			ts.name, instrumentation.ServiceAthena, ts.operation, sc, d.Handler(ts.name)))
	}
	return nil
}
