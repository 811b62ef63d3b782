package instrumentation

import "net/http"

// Operation types used as the "operation" span attribute and in audit records.
// Status, OAuth, and Service constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationCancel = "cancel"
	OperationSearch = "search"
)

// OperationForMethod maps an HTTP method onto a low-cardinality operation type.
// Unknown methods are reported as "unknown" rather than passed through.
func OperationForMethod(method string) string {
	switch method {
	case http.MethodGet:
		return OperationGet
	case http.MethodPost:
		return OperationCreate
	case http.MethodPut, http.MethodPatch:
		return OperationUpdate
	default:
		return StatusUnknown
	}
}
