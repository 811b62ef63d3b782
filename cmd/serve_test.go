package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/athena-mcp/internal/athena"
	"github.com/teemow/athena-mcp/internal/tools/scheduling_tools"
)

func TestServeCmd_Defaults(t *testing.T) {
	cmd := newServeCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"transport", "stdio"},
		{"http-addr", ":8080"},
		{"debug", "false"},
		{"read-only", "false"},
		{"env-file", ""},
		{"metrics-enabled", "true"},
		{"metrics-addr", ":9090"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}
}

func TestRunServe_UnsupportedTransport(t *testing.T) {
	err := runServe(ServeConfig{Transport: "sse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport type: sse")
}

func TestRunServe_MissingCredentials(t *testing.T) {
	t.Setenv(athena.EnvClientID, "")
	t.Setenv(athena.EnvClientSecret, "")
	t.Setenv(athena.EnvPracticeID, "")

	err := runServe(ServeConfig{Transport: transportStdio})

	var missing *athena.MissingEnvError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{athena.EnvClientID, athena.EnvClientSecret, athena.EnvPracticeID}, missing.Missing)
}

func TestWriteError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		writeError(&buf, fmt.Errorf("boom"))
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("missing environment", func(t *testing.T) {
		var buf bytes.Buffer
		writeError(&buf, &athena.MissingEnvError{Missing: []string{athena.EnvClientID, athena.EnvPracticeID}})

		out := buf.String()
		assert.True(t, strings.HasPrefix(out,
			"Error: Missing required environment variables: ATHENA_CLIENT_ID, ATHENA_PRACTICE_ID\n"))
		assert.Contains(t, out, "export ATHENA_CLIENT_ID='your_client_id'")
		assert.Contains(t, out, "export ATHENA_CLIENT_SECRET='your_client_secret'")
		assert.Contains(t, out, "export ATHENA_PRACTICE_ID='your_practice_id'")
		assert.Contains(t, out, "export ATHENA_BASE_URL='https://api.athenahealth.com'")
	})
}

func TestWriteCatalog(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, writeCatalog(&buf, readOnly))

		var tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &tools))
		assert.Len(t, tools, len(scheduling_tools.Catalog(readOnly)))
		for _, tool := range tools {
			assert.NotEmpty(t, tool.Description, tool.Name)
		}
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	md := generateToolsMarkdown(scheduling_tools.Catalog(false))

	assert.True(t, strings.HasPrefix(md, "# MCP Tools Reference\n"))
	assert.Contains(t, md, "## Appointment Management Tools")
	assert.Contains(t, md, "### cancel_appointment")
	assert.Contains(t, md, "- `appointment_id` (required): Appointment ID to cancel")
	assert.Contains(t, md, "- `cancellation_reason` (optional): Reason for cancellation")
	assert.Contains(t, md, "- `create_appointment`\n")
}

func TestGetCategoryFromToolName(t *testing.T) {
	assert.Equal(t, "Appointment Lookup Tools", getCategoryFromToolName(scheduling_tools.ToolGetAvailableSlots))
	assert.Equal(t, "Patient Tools", getCategoryFromToolName(scheduling_tools.ToolSearchPatients))
	assert.Equal(t, "Other", getCategoryFromToolName("unknown"))
}
