// Package testutil provides testing utilities for the collection API client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock collection API endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockMet is a configurable mock collection API server for testing.
type MockMet struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	pathCounts   map[string]int
	lastQuery    map[string]string
}

// NewMockMet creates a new mock collection API server.
func NewMockMet() *MockMet {
	mock := &MockMet{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.lastQuery = map[string]string{}
		for key := range r.URL.Query() {
			mock.lastQuery[key] = r.URL.Query().Get(key)
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockMet) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMet) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockMet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
	m.lastQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockMet) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a canned response for a path.
func (m *MockMet) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

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

// SetSearchResponse configures the search endpoint with a typical result.
func (m *MockMet) SetSearchResponse(total int, objectIDs []int) {
	body, _ := json.Marshal(map[string]interface{}{
		"total":     total,
		"objectIDs": objectIDs,
	})
	m.SetResponse("/search", MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	})
}

// SetObjectResponse configures one object detail endpoint with the given
// payload fields.
func (m *MockMet) SetObjectResponse(objectID int, fields map[string]interface{}) {
	body, _ := json.Marshal(fields)
	m.SetResponse(fmt.Sprintf("/objects/%d", objectID), MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	})
}

// SetObjectError configures one object detail endpoint to fail.
func (m *MockMet) SetObjectError(objectID int, statusCode int) {
	m.SetResponse(fmt.Sprintf("/objects/%d", objectID), MockResponse{
		StatusCode: statusCode,
		Body:       `{"message": "error"}`,
	})
}

// RequestCount returns the total number of requests the server received.
func (m *MockMet) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestCountFor returns the number of requests for a specific path.
func (m *MockMet) RequestCountFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// LastQuery returns the query parameters of the most recent request.
func (m *MockMet) LastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}
