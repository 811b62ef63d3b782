package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/athena-mcp/internal/athena"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := serve(t, h.LivenessHandler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := NewServerContext(context.Background(), nil, false)
	h := NewHealthChecker(sc)

	rec := serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec = serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Checks["shutdown"])
}

func TestHealthChecker_DetailedTokenState(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/oauth2/v1/token" {
			_, _ = w.Write([]byte(`{"access_token":"abc","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	client := athena.NewClient(athena.Credential{
		ClientID:     "id",
		ClientSecret: "secret",
		PracticeID:   "195900",
		BaseURL:      upstream.URL,
	}, athena.WithHTTPClient(upstream.Client()))
	h := NewHealthChecker(NewServerContext(context.Background(), client, true))

	var resp DetailedHealthResponse
	rec := serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "195900", resp.PracticeID)
	assert.True(t, resp.ReadOnly)
	assert.Equal(t, tokenStatusNotCached, resp.Token)
	assert.Nil(t, resp.ExpiresAt)

	_, err := client.GetDepartments(context.Background())
	require.NoError(t, err)

	rec = serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tokenStatusCached, resp.Token)
	assert.NotNil(t, resp.ExpiresAt)
}
