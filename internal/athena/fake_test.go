package athena

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testClientID     = "client-id"
	testClientSecret = "client-secret"
	testPracticeID   = "195900"
)

// recordedRequest is a resource request seen by fakeAthena.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          string
}

// fakeAthena serves the token endpoint and practice resources.
type fakeAthena struct {
	*httptest.Server

	tokenCalls    atomic.Int32
	resourceCalls atomic.Int32

	mu            sync.Mutex
	tokenHandler  http.HandlerFunc
	resource      http.HandlerFunc
	requests      []recordedRequest
	lastTokenForm map[string]string
	lastBasicUser string
	lastBasicPass string
}

func newFakeAthena(t *testing.T) *fakeAthena {
	t.Helper()
	f := &fakeAthena{}
	f.tokenHandler = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "token-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}
	f.resource = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		_ = r.ParseForm()
		user, pass, _ := r.BasicAuth()
		form := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		f.mu.Lock()
		f.lastTokenForm = form
		f.lastBasicUser, f.lastBasicPass = user, pass
		handler := f.tokenHandler
		f.mu.Unlock()

		handler(w, r)
	})
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		f.resourceCalls.Add(1)
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		handler := f.resource
		f.mu.Unlock()

		handler(w, r)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAthena) setTokenHandler(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenHandler = h
}

func (f *fakeAthena) setResource(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resource = h
}

func (f *fakeAthena) lastRequest(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no resource request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeAthena) credential() Credential {
	return Credential{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		PracticeID:   testPracticeID,
		BaseURL:      f.URL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
