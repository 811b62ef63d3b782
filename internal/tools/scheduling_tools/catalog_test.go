package scheduling_tools

import (
	"context"
	"encoding/json"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/athena-mcp/internal/server"
)

func toolNames(t *testing.T, readOnly bool) []string {
	t.Helper()
	var names []string
	for _, tool := range Catalog(readOnly) {
		names = append(names, tool.Name)
	}
	return names
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, []string{
		ToolGetAppointments,
		ToolGetAvailableSlots,
		ToolCreateAppointment,
		ToolUpdateAppointment,
		ToolCancelAppointment,
		ToolGetProviders,
		ToolGetDepartments,
		ToolGetAppointmentTypes,
		ToolSearchPatients,
	}, toolNames(t, false))
}

func TestCatalog_ReadOnly(t *testing.T) {
	names := toolNames(t, true)
	assert.Len(t, names, 6)
	for _, name := range names {
		assert.False(t, IsWriteTool(name), name)
	}
}

func TestCatalog_Schemas(t *testing.T) {
	byName := map[string]int{}
	tools := Catalog(false)
	for i, tool := range tools {
		byName[tool.Name] = i
	}

	create := tools[byName[ToolCreateAppointment]]
	assert.Equal(t, "Create a new appointment", create.Description)
	assert.ElementsMatch(t, []string{
		"patient_id", "provider_id", "department_id",
		"appointment_type_id", "appointment_date", "appointment_time",
	}, create.InputSchema.Required)
	assert.Contains(t, create.InputSchema.Properties, "reason_for_visit")

	departments := tools[byName[ToolGetDepartments]]
	assert.Empty(t, departments.InputSchema.Required)
	assert.Empty(t, departments.InputSchema.Properties)

	slots := tools[byName[ToolGetAvailableSlots]]
	assert.ElementsMatch(t, []string{"department_id", "start_date", "end_date"}, slots.InputSchema.Required)
}

func TestIsWriteTool(t *testing.T) {
	assert.True(t, IsWriteTool(ToolCreateAppointment))
	assert.True(t, IsWriteTool(ToolUpdateAppointment))
	assert.True(t, IsWriteTool(ToolCancelAppointment))
	assert.False(t, IsWriteTool(ToolSearchPatients))
	assert.False(t, IsWriteTool("unknown"))
}

func TestRegisterSchedulingTools(t *testing.T) {
	u := newUpstream(t)

	for _, readOnly := range []bool{false, true} {
		s := mcpserver.NewMCPServer("athena-mcp", "test", mcpserver.WithToolCapabilities(true))
		sc := server.NewServerContext(context.Background(), u.client(), readOnly)

		require.NoError(t, RegisterSchedulingTools(s, sc, readOnly))

		registered := s.ListTools()
		assert.Len(t, registered, len(Catalog(readOnly)))
		_, hasCancel := registered[ToolCancelAppointment]
		assert.Equal(t, !readOnly, hasCancel)

		_ = sc.Shutdown()
	}
}

func TestRegisterSchedulingTools_RequiresClient(t *testing.T) {
	s := mcpserver.NewMCPServer("athena-mcp", "test")
	sc := server.NewServerContext(context.Background(), nil, false)
	defer sc.Shutdown()

	assert.Error(t, RegisterSchedulingTools(s, sc, false))
}

func TestRegisterSchedulingTools_UnregisteredToolIsProtocolError(t *testing.T) {
	u := newUpstream(t)
	s := mcpserver.NewMCPServer("athena-mcp", "test", mcpserver.WithToolCapabilities(true))
	sc := server.NewServerContext(context.Background(), u.client(), true)
	defer sc.Shutdown()
	require.NoError(t, RegisterSchedulingTools(s, sc, true))

	call := func(name string) map[string]any {
		msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"` + name + `","arguments":{"appointment_id":"1"}}}`
		raw, err := json.Marshal(s.HandleMessage(context.Background(), json.RawMessage(msg)))
		require.NoError(t, err)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(raw, &resp))
		return resp
	}

	for _, name := range []string{ToolCancelAppointment, "reschedule_appointment"} {
		resp := call(name)
		assert.Contains(t, resp, "error", name)
		assert.NotContains(t, resp, "result", name)
	}
	assert.Zero(t, u.calls.Load())

	resp := call(ToolGetDepartments)
	assert.Contains(t, resp, "result")
	assert.NotContains(t, resp, "error")
}
