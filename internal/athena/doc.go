// Package athena is a client for the athenahealth scheduling API.
//
// A Client authenticates with the OAuth2 client-credentials grant. The bearer
// token is held by a TokenCache, which refreshes it one minute before the
// provider-reported expiry and collapses concurrent refreshes into a single
// exchange.
//
// Resource calls are scoped to one practice:
//
//	{base_url}/v1/{practice_id}{endpoint}
//
// Each scheduling operation has a typed request (GetAppointmentsRequest,
// CancelAppointmentRequest, ...). Decode turns MCP tool arguments into one of
// these and reports missing required fields as a *ValidationError before any
// network call is made.
//
// Responses are returned verbatim as json.RawMessage.
package athena
