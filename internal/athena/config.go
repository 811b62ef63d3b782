package athena

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadCredentialFromEnv.
const (
	EnvBaseURL      = "ATHENA_BASE_URL"
	EnvClientID     = "ATHENA_CLIENT_ID"
	EnvClientSecret = "ATHENA_CLIENT_SECRET"
	EnvPracticeID   = "ATHENA_PRACTICE_ID"
	EnvHTTPTimeout  = "ATHENA_HTTP_TIMEOUT"
)

// DefaultBaseURL is the production athenahealth API host.
const DefaultBaseURL = "https://api.athenahealth.com"

// Credential identifies this server to the athenahealth API.
// It is loaded once at startup and never mutated afterwards.
type Credential struct {
	ClientID     string
	ClientSecret string
	PracticeID   string
	BaseURL      string

	// HTTPTimeout bounds each outbound request. Zero means no timeout.
	HTTPTimeout time.Duration
}

// TokenURL returns the client-credentials token endpoint.
func (c Credential) TokenURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/oauth2/v1/token"
}

// ResourceURL returns the full URL for a practice-scoped endpoint such as "/appointments".
func (c Credential) ResourceURL(endpoint string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + APIVersion + "/" + c.PracticeID + endpoint
}

// MissingEnvError reports required environment variables that were not set.
type MissingEnvError struct {
	Missing []string
}

// Error implements the error interface
func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("Missing required environment variables: %s", strings.Join(e.Missing, ", "))
}

// LoadDotEnv loads variables from the given .env files (".env" when none are given).
// Variables already present in the environment are not overridden.
// A missing default file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadCredentialFromEnv reads the athenahealth credential from the process environment.
func LoadCredentialFromEnv() (Credential, error) {
	return LoadCredential(os.Getenv)
}

// LoadCredential reads the credential through getenv.
// All missing required variables are reported together in a *MissingEnvError.
func LoadCredential(getenv func(string) string) (Credential, error) {
	cred := Credential{
		ClientID:     strings.TrimSpace(getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(getenv(EnvClientSecret)),
		PracticeID:   strings.TrimSpace(getenv(EnvPracticeID)),
		BaseURL:      strings.TrimSpace(getenv(EnvBaseURL)),
	}
	if cred.BaseURL == "" {
		cred.BaseURL = DefaultBaseURL
	}

	var missing []string
	if cred.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if cred.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if cred.PracticeID == "" {
		missing = append(missing, EnvPracticeID)
	}
	if len(missing) > 0 {
		return Credential{}, &MissingEnvError{Missing: missing}
	}

	if raw := strings.TrimSpace(getenv(EnvHTTPTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Credential{}, fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, raw, err)
		}
		if timeout < 0 {
			return Credential{}, fmt.Errorf("invalid %s %q: must not be negative", EnvHTTPTimeout, raw)
		}
		cred.HTTPTimeout = timeout
	}

	return cred, nil
}
