package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithHelpers(t *testing.T) {
	logger := slog.Default()
	if WithOperation(logger, "athena.request") == nil {
		t.Error("WithOperation returned nil")
	}
	if WithTool(logger, "get_departments") == nil {
		t.Error("WithTool returned nil")
	}
	if WithService(logger, "athena") == nil {
		t.Error("WithService returned nil")
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name      string
		attr      slog.Attr
		wantKey   string
		wantValue string
	}{
		{"operation", Operation("athena.token"), KeyOperation, "athena.token"},
		{"service", Service("athena"), KeyService, "athena"},
		{"tool", Tool("create_appointment"), KeyTool, "create_appointment"},
		{"status", Status(StatusSuccess), KeyStatus, StatusSuccess},
		{"practice", PracticeID("195900"), KeyPractice, "195900"},
		{"method", Method("PUT"), KeyMethod, "PUT"},
		{"status code", StatusCode(404), KeyStatusCode, "404"},
		{"endpoint", Endpoint("/appointments/123"), KeyEndpoint, "/appointments/{id}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantValue {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantValue)
			}
		})
	}
}

func TestErr(t *testing.T) {
	err := errors.New("test error")
	attr := Err(err)
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Empty Group has empty key
	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"a_very_long_token_string", "[token:24 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := SanitizeToken(tt.token)
			if result != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, result, tt.expected)
			}
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		expected string
	}{
		{"/appointments", "/appointments"},
		{"/appointments/open", "/appointments/open"},
		{"/appointments/123", "/appointments/{id}"},
		{"/appointments/123?x=1", "/appointments/{id}"},
		{"/departments", "/departments"},
		{"", "/"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			if got := NormalizeEndpoint(tt.endpoint); got != tt.expected {
				t.Errorf("NormalizeEndpoint(%q) = %q, want %q", tt.endpoint, got, tt.expected)
			}
		})
	}
}

func TestStatusConstants(t *testing.T) {
	if StatusSuccess != "success" {
		t.Errorf("StatusSuccess = %q, want %q", StatusSuccess, "success")
	}
	if StatusError != "error" {
		t.Errorf("StatusError = %q, want %q", StatusError, "error")
	}
}
