// Package helper provides test utilities shared by the wrapi packages
package helper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// RecordedRequest is a snapshot of a request received by a TestServer
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

// TestServer is a wrapper around httptest.Server that records every request it serves
type TestServer struct {
	*httptest.Server
	URL string

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewTestServer creates a new test server with the given handler
func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	t.Helper()

	ts := &TestServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		ts.mu.Lock()
		ts.requests = append(ts.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		ts.mu.Unlock()

		handler.ServeHTTP(w, r)
	}))
	ts.URL = ts.Server.URL
	t.Cleanup(ts.Close)

	return ts
}

// NewJSONServer creates a test server answering every request with status and a raw JSON body
func NewJSONServer(t *testing.T, status int, body string) *TestServer {
	t.Helper()

	return NewTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

// Requests returns a copy of the requests received so far
func (ts *TestServer) Requests() []RecordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	out := make([]RecordedRequest, len(ts.requests))
	copy(out, ts.requests)

	return out
}

// LastRequest returns the most recent request, failing the test if none was received
func (ts *TestServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()

	reqs := ts.Requests()
	require.NotEmpty(t, reqs, "test server received no request")

	return reqs[len(reqs)-1]
}

// Count returns the number of requests received
func (ts *TestServer) Count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	return len(ts.requests)
}
