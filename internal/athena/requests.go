package athena

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all requests; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names as the caller wrote them, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode normalises tool arguments to strings, fills dst (a pointer to one of
// the request types in this file) and checks required fields.
//
// JSON numbers and booleans are formatted as strings; nil values are dropped;
// any other value type is a *ValidationError. Unknown arguments are ignored.
// Missing or empty required arguments are reported together in one
// *ValidationError. No network call is made by Decode.
func Decode(args map[string]any, dst any) error {
	normalized, err := normalizeArgs(args)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return &ValidationError{Fields: fields, Reason: "missing required arguments"}
		}
		return fmt.Errorf("failed to validate arguments: %w", err)
	}
	return nil
}

func normalizeArgs(args map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(args))
	var invalid []string
	for key, value := range args {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			out[key] = v
		case json.Number:
			out[key] = v.String()
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case float32:
			out[key] = strconv.FormatFloat(float64(v), 'f', -1, 32)
		case int:
			out[key] = strconv.Itoa(v)
		case int64:
			out[key] = strconv.FormatInt(v, 10)
		case bool:
			out[key] = strconv.FormatBool(v)
		default:
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &ValidationError{Fields: invalid, Reason: "arguments must be strings"}
	}
	return out, nil
}

// params collects upstream fields, dropping empty optional values.
type params map[string]string

func (p params) set(key, value string) {
	p[key] = value
}

func (p params) setIf(key, value string) {
	if value != "" {
		p[key] = value
	}
}

// setPresent sets key when the argument was given, even if it is empty.
func (p params) setPresent(key string, value *string) {
	if value != nil {
		p[key] = *value
	}
}

// GetAppointmentsRequest lists booked appointments in a date range.
type GetAppointmentsRequest struct {
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	ProviderID   string `json:"provider_id"`
	DepartmentID string `json:"department_id"`
}

func (r GetAppointmentsRequest) params() params {
	p := params{}
	p.set("startdate", r.StartDate)
	p.set("enddate", r.EndDate)
	p.setIf("providerid", r.ProviderID)
	p.setIf("departmentid", r.DepartmentID)
	return p
}

// GetAvailableSlotsRequest lists open slots for a department.
type GetAvailableSlotsRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	// AppointmentTypeID is accepted but not sent upstream; the slot query
	// always uses reasonid=-1 (any reason).
	AppointmentTypeID string `json:"appointment_type_id"`
}

// AnyReason is the reasonid value that matches open slots of every reason.
const AnyReason = "-1"

func (r GetAvailableSlotsRequest) params() params {
	p := params{}
	p.set("departmentid", r.DepartmentID)
	p.set("startdate", r.StartDate)
	p.set("enddate", r.EndDate)
	p.set("reasonid", AnyReason)
	return p
}

// CreateAppointmentRequest books a new appointment.
type CreateAppointmentRequest struct {
	PatientID         string `json:"patient_id" validate:"required"`
	ProviderID        string `json:"provider_id" validate:"required"`
	DepartmentID      string `json:"department_id" validate:"required"`
	AppointmentTypeID string `json:"appointment_type_id" validate:"required"`
	AppointmentDate   string `json:"appointment_date" validate:"required"`
	AppointmentTime   string `json:"appointment_time" validate:"required"`
	ReasonForVisit    string `json:"reason_for_visit"`
}

func (r CreateAppointmentRequest) params() params {
	p := params{}
	p.set("patientid", r.PatientID)
	p.set("providerid", r.ProviderID)
	p.set("departmentid", r.DepartmentID)
	p.set("appointmenttypeid", r.AppointmentTypeID)
	p.set("appointmentdate", r.AppointmentDate)
	p.set("appointmenttime", r.AppointmentTime)
	p.setIf("reasonforvisit", r.ReasonForVisit)
	return p
}

// UpdateAppointmentRequest changes fields of an existing appointment.
//
// Optional fields are pointers so that an argument given as "" is sent and
// can clear the upstream value; absent or null arguments are left out.
type UpdateAppointmentRequest struct {
	AppointmentID   string  `json:"appointment_id" validate:"required"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	ReasonForVisit  *string `json:"reason_for_visit"`
	Notes           *string `json:"notes"`
}

func (r UpdateAppointmentRequest) params() params {
	p := params{}
	p.setPresent("appointmentdate", r.AppointmentDate)
	p.setPresent("appointmenttime", r.AppointmentTime)
	p.setPresent("reasonforvisit", r.ReasonForVisit)
	p.setPresent("notes", r.Notes)
	return p
}

// CancelAppointmentRequest cancels an existing appointment.
type CancelAppointmentRequest struct {
	AppointmentID      string `json:"appointment_id" validate:"required"`
	CancellationReason string `json:"cancellation_reason"`
}

// StatusCancelled is the appointmentstatus value that cancels an appointment.
const StatusCancelled = "x"

func (r CancelAppointmentRequest) params() params {
	p := params{}
	p.set("appointmentstatus", StatusCancelled)
	p.setIf("cancellationreason", r.CancellationReason)
	return p
}

// GetProvidersRequest lists providers.
type GetProvidersRequest struct {
	DepartmentID string `json:"department_id"`
	Specialty    string `json:"specialty"`
}

func (r GetProvidersRequest) params() params {
	p := params{}
	p.setIf("departmentid", r.DepartmentID)
	p.setIf("specialty", r.Specialty)
	return p
}

// GetAppointmentTypesRequest lists appointment types.
type GetAppointmentTypesRequest struct {
	DepartmentID string `json:"department_id"`
	ProviderID   string `json:"provider_id"`
}

func (r GetAppointmentTypesRequest) params() params {
	p := params{}
	p.setIf("departmentid", r.DepartmentID)
	p.setIf("providerid", r.ProviderID)
	return p
}

// SearchPatientsRequest searches patients by demographic fields.
type SearchPatientsRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

func (r SearchPatientsRequest) params() params {
	p := params{}
	p.setIf("firstname", r.FirstName)
	p.setIf("lastname", r.LastName)
	p.setIf("dob", r.DateOfBirth)
	p.setIf("homephone", r.Phone)
	p.setIf("email", r.Email)
	return p
}
