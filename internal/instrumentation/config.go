package instrumentation

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config configures metrics, tracing and audit logging for one athena-mcp
// process.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// InstanceID identifies this process. The hostname is used when empty.
	InstanceID string

	// PracticeID and BaseURL name the athenahealth tenant this process talks
	// to. Together with Transport and ReadOnly they are exported as resource
	// attributes, so every metric and span can be attributed to a practice
	// without a per-sample label.
	PracticeID string
	BaseURL    string
	Transport  string `validate:"omitempty,oneof=stdio streamable-http"`
	ReadOnly   bool

	// Enabled turns metrics and tracing on. INSTRUMENTATION_ENABLED=false
	// leaves the server with no-op recorders.
	Enabled bool

	MetricsExporter string `validate:"oneof=prometheus otlp stdout"`
	TracingExporter string `validate:"oneof=otlp stdout none"`

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string `validate:"required_if=MetricsExporter otlp,required_if=TracingExporter otlp"`

	// OTLPInsecure sends OTLP over plain HTTP. Spans carry practice and
	// endpoint metadata, so keep TLS outside local development.
	OTLPInsecure bool

	TraceSamplingRate float64 `validate:"gte=0,lte=1"`

	// DetailedLabels adds the practice id as a label on tool metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled writes one audit record per tool call (default: true).
	Enabled bool

	// IncludePII adds appointment ids and span ids to audit records.
	// Appointment ids can be linked to patients; route such logs to secure
	// storage.
	IncludePII bool
}

// DefaultConfig reads the instrumentation settings from the environment.
// Tenant fields (PracticeID, BaseURL) and the transport are left for the
// caller, which knows them from the credential and flags.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", "athena-mcp"),
		ServiceVersion:    "unknown",
		InstanceID:        getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", os.Getenv("HOSTNAME")),
		Enabled:           getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludePII: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid setting. A disabled config is always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	err := configValidator.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "TraceSamplingRate":
			errs = append(errs, fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %v", fe.Value()))
		case "MetricsExporter":
			errs = append(errs, fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", fe.Value()))
		case "TracingExporter":
			errs = append(errs, fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", fe.Value()))
		case "OTLPEndpoint":
			errs = append(errs, fmt.Errorf("OTLP endpoint is required when an OTLP exporter is selected; set OTEL_EXPORTER_OTLP_ENDPOINT"))
		case "Transport":
			errs = append(errs, fmt.Errorf("invalid transport %q", fe.Value()))
		default:
			errs = append(errs, fe)
		}
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault falls back to defaultValue when the variable does not parse.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Label values shared by metrics, spans and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	// ServiceAthena is the only upstream service.
	ServiceAthena = "athena"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
