package athena

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (p params) query() url.Values {
	if len(p) == 0 {
		return nil
	}
	v := make(url.Values, len(p))
	for key, value := range p {
		v.Set(key, value)
	}
	return v
}

// body always returns a non-nil map so an empty update is sent as "{}".
func (p params) body() map[string]string {
	return map[string]string(p)
}

func appointmentEndpoint(id string) string {
	return "/appointments/" + url.PathEscape(id)
}

// GetAppointments lists booked appointments.
func (c *Client) GetAppointments(ctx context.Context, req GetAppointmentsRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/appointments", http.MethodGet, nil, req.params().query())
}

// GetAvailableSlots lists open appointment slots for a department.
func (c *Client) GetAvailableSlots(ctx context.Context, req GetAvailableSlotsRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/appointments/open", http.MethodGet, nil, req.params().query())
}

// CreateAppointment books a new appointment.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/appointments", http.MethodPost, req.params().body(), nil)
}

// UpdateAppointment modifies an existing appointment.
func (c *Client) UpdateAppointment(ctx context.Context, req UpdateAppointmentRequest) (json.RawMessage, error) {
	return c.Request(ctx, appointmentEndpoint(req.AppointmentID), http.MethodPut, req.params().body(), nil)
}

// CancelAppointment sets an appointment's status to cancelled.
func (c *Client) CancelAppointment(ctx context.Context, req CancelAppointmentRequest) (json.RawMessage, error) {
	return c.Request(ctx, appointmentEndpoint(req.AppointmentID), http.MethodPut, req.params().body(), nil)
}

// GetProviders lists providers.
func (c *Client) GetProviders(ctx context.Context, req GetProvidersRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/providers", http.MethodGet, nil, req.params().query())
}

// GetDepartments lists the practice's departments.
func (c *Client) GetDepartments(ctx context.Context) (json.RawMessage, error) {
	return c.Request(ctx, "/departments", http.MethodGet, nil, nil)
}

// GetAppointmentTypes lists appointment types.
func (c *Client) GetAppointmentTypes(ctx context.Context, req GetAppointmentTypesRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/appointmenttypes", http.MethodGet, nil, req.params().query())
}

// SearchPatients searches patients by demographic fields.
func (c *Client) SearchPatients(ctx context.Context, req SearchPatientsRequest) (json.RawMessage, error) {
	return c.Request(ctx, "/patients", http.MethodGet, nil, req.params().query())
}
