package athena

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SchedulingOperations(t *testing.T) {
	tests := []struct {
		name      string
		call      func(ctx context.Context, c *Client) (json.RawMessage, error)
		wantMeth  string
		wantPath  string
		wantQuery string
		wantBody  string
	}{
		{
			name: "get appointments without filters",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetAppointments(ctx, GetAppointmentsRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/appointments",
			wantQuery: "enddate=2024-01-31&startdate=2024-01-01",
		},
		{
			name: "get appointments with filters",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetAppointments(ctx, GetAppointmentsRequest{
					StartDate: "2024-01-01", EndDate: "2024-01-31", ProviderID: "5", DepartmentID: "1",
				})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/appointments",
			wantQuery: "departmentid=1&enddate=2024-01-31&providerid=5&startdate=2024-01-01",
		},
		{
			name: "get available slots",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetAvailableSlots(ctx, GetAvailableSlotsRequest{
					DepartmentID: "1", StartDate: "2024-02-01", EndDate: "2024-02-07", AppointmentTypeID: "82",
				})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/appointments/open",
			wantQuery: "departmentid=1&enddate=2024-02-07&reasonid=-1&startdate=2024-02-01",
		},
		{
			name: "create appointment",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.CreateAppointment(ctx, CreateAppointmentRequest{
					PatientID: "7", ProviderID: "5", DepartmentID: "1", AppointmentTypeID: "82",
					AppointmentDate: "02/01/2024", AppointmentTime: "09:30",
				})
			},
			wantMeth: http.MethodPost,
			wantPath: "/v1/195900/appointments",
			wantBody: `{"patientid":"7","providerid":"5","departmentid":"1","appointmenttypeid":"82","appointmentdate":"02/01/2024","appointmenttime":"09:30"}`,
		},
		{
			name: "update appointment without changes",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.UpdateAppointment(ctx, UpdateAppointmentRequest{AppointmentID: "123"})
			},
			wantMeth: http.MethodPut,
			wantPath: "/v1/195900/appointments/123",
			wantBody: `{}`,
		},
		{
			name: "update appointment",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				notes := "bring x-rays"
				return c.UpdateAppointment(ctx, UpdateAppointmentRequest{AppointmentID: "123", Notes: &notes})
			},
			wantMeth: http.MethodPut,
			wantPath: "/v1/195900/appointments/123",
			wantBody: `{"notes":"bring x-rays"}`,
		},
		{
			name: "update appointment clears notes",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				empty := ""
				return c.UpdateAppointment(ctx, UpdateAppointmentRequest{AppointmentID: "123", Notes: &empty})
			},
			wantMeth: http.MethodPut,
			wantPath: "/v1/195900/appointments/123",
			wantBody: `{"notes":""}`,
		},
		{
			name: "cancel appointment",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.CancelAppointment(ctx, CancelAppointmentRequest{AppointmentID: "123"})
			},
			wantMeth: http.MethodPut,
			wantPath: "/v1/195900/appointments/123",
			wantBody: `{"appointmentstatus":"x"}`,
		},
		{
			name: "cancel appointment escapes id",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.CancelAppointment(ctx, CancelAppointmentRequest{AppointmentID: "1/2", CancellationReason: "ill"})
			},
			wantMeth: http.MethodPut,
			wantPath: "/v1/195900/appointments/1%2F2",
			wantBody: `{"appointmentstatus":"x","cancellationreason":"ill"}`,
		},
		{
			name: "get providers",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetProviders(ctx, GetProvidersRequest{Specialty: "cardiology"})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/providers",
			wantQuery: "specialty=cardiology",
		},
		{
			name: "get departments",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetDepartments(ctx)
			},
			wantMeth: http.MethodGet,
			wantPath: "/v1/195900/departments",
		},
		{
			name: "get appointment types",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.GetAppointmentTypes(ctx, GetAppointmentTypesRequest{ProviderID: "5"})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/appointmenttypes",
			wantQuery: "providerid=5",
		},
		{
			name: "search patients",
			call: func(ctx context.Context, c *Client) (json.RawMessage, error) {
				return c.SearchPatients(ctx, SearchPatientsRequest{
					LastName: "Smith", DateOfBirth: "01/02/1980", Phone: "5551234",
				})
			},
			wantMeth:  http.MethodGet,
			wantPath:  "/v1/195900/patients",
			wantQuery: "dob=01%2F02%2F1980&homephone=5551234&lastname=Smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeAthena(t)
			client := NewClient(f.credential(), WithHTTPClient(f.Client()))

			_, err := tt.call(context.Background(), client)
			require.NoError(t, err)

			req := f.lastRequest(t)
			assert.Equal(t, tt.wantMeth, req.Method)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantQuery, req.RawQuery)
			if tt.wantBody == "" {
				assert.Empty(t, req.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, req.Body)
				assert.Equal(t, "application/json", req.ContentType)
			}
			assert.Equal(t, int32(1), f.resourceCalls.Load())
		})
	}
}
