package client

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockRoundTripper struct {
	calls   int
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.handler(req)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupBackend creates a test server that answers every request with the given
// JSON body and status code and records the last request it saw.
func setupBackend(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *[]byte) {
	t.Helper()

	last := &http.Request{}
	lastBody := new([]byte)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*last = *r.Clone(r.Context())
		*lastBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		// #nosec G104
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, last, lastBody
}
