package scheduling_tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/athena-mcp/internal/instrumentation"
)

// Tool names.
const (
	ToolGetAppointments     = "get_appointments"
	ToolGetAvailableSlots   = "get_available_slots"
	ToolCreateAppointment   = "create_appointment"
	ToolUpdateAppointment   = "update_appointment"
	ToolCancelAppointment   = "cancel_appointment"
	ToolGetProviders        = "get_providers"
	ToolGetDepartments      = "get_departments"
	ToolGetAppointmentTypes = "get_appointment_types"
	ToolSearchPatients      = "search_patients"
)

type argSpec struct {
	name        string
	description string
	required    bool
}

type toolSpec struct {
	name        string
	description string
	operation   string
	write       bool
	args        []argSpec
}

// toolSpecs is ordered as the catalog is listed.
var toolSpecs = []toolSpec{
	{
		name:        ToolGetAppointments,
		description: "Get appointments for a specific date range and optional provider",
		operation:   instrumentation.OperationList,
		args: []argSpec{
			{"start_date", "Start date in YYYY-MM-DD format", true},
			{"end_date", "End date in YYYY-MM-DD format", true},
			{"provider_id", "Optional provider ID to filter appointments", false},
			{"department_id", "Optional department ID to filter appointments", false},
		},
	},
	{
		name:        ToolGetAvailableSlots,
		description: "Get available appointment slots for scheduling",
		operation:   instrumentation.OperationList,
		args: []argSpec{
			{"department_id", "Department ID", true},
			{"start_date", "Start date in YYYY-MM-DD format", true},
			{"end_date", "End date in YYYY-MM-DD format", true},
		},
	},
	{
		name:        ToolCreateAppointment,
		description: "Create a new appointment",
		operation:   instrumentation.OperationCreate,
		write:       true,
		args: []argSpec{
			{"patient_id", "Patient ID", true},
			{"provider_id", "Provider ID", true},
			{"department_id", "Department ID", true},
			{"appointment_type_id", "Appointment type ID", true},
			{"appointment_date", "Appointment date in YYYY-MM-DD format", true},
			{"appointment_time", "Appointment time in HH:MM format", true},
			{"reason_for_visit", "Reason for the visit", false},
		},
	},
	{
		name:        ToolUpdateAppointment,
		description: "Update an existing appointment",
		operation:   instrumentation.OperationUpdate,
		write:       true,
		args: []argSpec{
			{"appointment_id", "Appointment ID to update", true},
			{"appointment_date", "New appointment date in YYYY-MM-DD format", false},
			{"appointment_time", "New appointment time in HH:MM format", false},
			{"reason_for_visit", "Updated reason for the visit", false},
			{"notes", "Additional notes", false},
		},
	},
	{
		name:        ToolCancelAppointment,
		description: "Cancel an appointment",
		operation:   instrumentation.OperationCancel,
		write:       true,
		args: []argSpec{
			{"appointment_id", "Appointment ID to cancel", true},
			{"cancellation_reason", "Reason for cancellation", false},
		},
	},
	{
		name:        ToolGetProviders,
		description: "Get list of providers",
		operation:   instrumentation.OperationList,
		args: []argSpec{
			{"department_id", "Optional department ID to filter providers", false},
			{"specialty", "Optional specialty to filter providers", false},
		},
	},
	{
		name:        ToolGetDepartments,
		description: "Get list of departments",
		operation:   instrumentation.OperationList,
	},
	{
		name:        ToolGetAppointmentTypes,
		description: "Get available appointment types",
		operation:   instrumentation.OperationList,
		args: []argSpec{
			{"department_id", "Optional department ID to filter appointment types", false},
			{"provider_id", "Optional provider ID to filter appointment types", false},
		},
	},
	{
		name:        ToolSearchPatients,
		description: "Search for patients by name, DOB, or phone",
		operation:   instrumentation.OperationSearch,
		args: []argSpec{
			{"first_name", "Patient first name", false},
			{"last_name", "Patient last name", false},
			{"date_of_birth", "Date of birth in YYYY-MM-DD format", false},
			{"phone", "Phone number", false},
			{"email", "Email address", false},
		},
	},
}

func (ts toolSpec) tool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ts.description)}
	for _, arg := range ts.args {
		propOpts := []mcp.PropertyOption{mcp.Description(arg.description)}
		if arg.required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithString(arg.name, propOpts...))
	}
	if !ts.write {
		opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
	}
	return mcp.NewTool(ts.name, opts...)
}

func lookup(name string, readOnly bool) (toolSpec, bool) {
	for _, ts := range toolSpecs {
		if ts.name == name {
			if readOnly && ts.write {
				return toolSpec{}, false
			}
			return ts, true
		}
	}
	return toolSpec{}, false
}

// Catalog returns the tool definitions in listing order. With readOnly set,
// create_appointment, update_appointment and cancel_appointment are left out.
func Catalog(readOnly bool) []mcp.Tool {
	tools := make([]mcp.Tool, 0, len(toolSpecs))
	for _, ts := range toolSpecs {
		if readOnly && ts.write {
			continue
		}
		tools = append(tools, ts.tool())
	}
	return tools
}

// IsWriteTool reports whether name modifies appointments.
func IsWriteTool(name string) bool {
	for _, ts := range toolSpecs {
		if ts.name == name {
			return ts.write
		}
	}
	return false
}
