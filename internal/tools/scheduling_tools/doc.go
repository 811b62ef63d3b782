// Package scheduling_tools exposes athenahealth appointment scheduling as MCP tools.
//
// Nine tools are available:
//   - get_appointments, get_available_slots: appointment lookups
//   - create_appointment, update_appointment, cancel_appointment: writes
//   - get_providers, get_departments, get_appointment_types: reference data
//   - search_patients: patient lookup by demographic fields
//
// Each tool call maps onto exactly one athenahealth request. Results are
// returned as indented JSON text; failures are returned as a tool error whose
// text starts with "Error: ". In read-only mode the three write tools are
// neither listed nor callable.
//
// Unknown tool names: Dispatcher.Invoke reports them as "Unknown tool: <name>",
// but over MCP only registered tools reach the dispatcher. A tools/call for
// any other name (including a write tool in read-only mode) is rejected by
// mcp-go before dispatch with a JSON-RPC error, not an "Error: Unknown tool"
// tool result.
package scheduling_tools
