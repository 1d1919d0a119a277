// Package testutil provides testing utilities for the BDL client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockResponse defines the behavior for a mock BDL endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockBDL is a configurable mock BDL API server for testing.
type MockBDL struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCounts map[string]int
	lastQuery     map[string]url.Values
	lastHeader    http.Header
}

// NewMockBDL creates a new mock BDL server.
func NewMockBDL() *MockBDL {
	mock := &MockBDL{
		handlers:      make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requestCounts: make(map[string]int),
		lastQuery:     make(map[string]url.Values),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCounts[r.URL.Path]++
		mock.lastQuery[r.URL.Path] = r.URL.Query()
		mock.lastHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBDL) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBDL) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBDL) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCounts = make(map[string]int)
	m.lastQuery = make(map[string]url.Values)
	m.lastHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBDL) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockBDL) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSON configures a 200 response with a JSON body for a path.
func (m *MockBDL) SetJSON(path, body string) {
	m.SetResponse(path, MockResponse{StatusCode: http.StatusOK, Body: body})
}

// RequestCount returns the number of requests made to a path.
func (m *MockBDL) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCounts[path]
}

// TotalRequests returns the number of requests made to the server.
func (m *MockBDL) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requestCounts {
		total += n
	}
	return total
}

// LastQuery returns the query parameters of the last request to a path.
func (m *MockBDL) LastQuery(path string) url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[path]
}

// LastHeader returns the headers of the most recent request.
func (m *MockBDL) LastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHeader
}

// defaultHandler answers with an empty paged envelope.
func (m *MockBDL) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"totalRecords": 0, "page": 0, "pageSize": 100, "results": []}`))
}

// UnitsEnvelope builds a paged units response body from raw unit JSON
// fragments.
func UnitsEnvelope(units ...string) string {
	return pagedEnvelope(units)
}

// UnitJSON builds one unit result fragment.
func UnitJSON(id, name string, level int) string {
	return fmt.Sprintf(`{"id": %q, "name": %q, "level": %d}`, id, name, level)
}

// VariablesEnvelope builds a paged variables response body from raw
// variable JSON fragments.
func VariablesEnvelope(variables ...string) string {
	return pagedEnvelope(variables)
}

// DataByUnitBody builds a by-unit data response (variable-major shape).
func DataByUnitBody(unitID, unitName string, results ...string) string {
	return fmt.Sprintf(`{"totalRecords": %d, "unitId": %q, "unitName": %q, "results": [%s]}`,
		len(results), unitID, unitName, join(results))
}

// DataByVariableBody builds a by-variable data response (unit-major shape).
func DataByVariableBody(variableID int, results ...string) string {
	return fmt.Sprintf(`{"totalRecords": %d, "variableId": %d, "results": [%s]}`,
		len(results), variableID, join(results))
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message": "Internal server error"}`,
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"message": "Limit of requests exceeded"}`,
	}
}

func pagedEnvelope(results []string) string {
	return fmt.Sprintf(`{"totalRecords": %d, "page": 0, "pageSize": 100, "results": [%s]}`,
		len(results), join(results))
}

func join(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
