package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thdms4101-lab/Open-API-MET-Museum/internal/config"
	"github.com/thdms4101-lab/Open-API-MET-Museum/internal/testutil"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/batch"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/cache"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/client"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/logging"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/met"
)

func newTestServer(t *testing.T, mock *testutil.MockMet) *server {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}

	apiClient, err := client.New(client.Config{
		BaseURL: mock.URL(),
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("client.New failed: %v", err)
	}

	responseCache := cache.New(cache.NewMemoryStore(), time.Hour)
	objectService := met.NewObjectService(apiClient, responseCache)

	return &server{
		search:  met.NewSearchService(apiClient, responseCache),
		objects: objectService,
		loader:  batch.NewLoader(objectService, batch.DefaultConfig()),
		cfg:     cfg,
		logger:  logging.NewLogger("http-test"),
	}
}

func TestHealthEndpoint(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Body = %q, want OK", w.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	mock.SetSearchResponse(3, []int{10, 20, 30})
	mock.SetObjectResponse(10, map[string]interface{}{"objectID": 10, "title": "First"})
	mock.SetObjectError(20, 500)
	mock.SetObjectResponse(30, map[string]interface{}{"objectID": 30, "title": "Third"})

	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=flower&pageSize=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}
	if resp.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", resp.TotalPages)
	}
	if len(resp.Items) != 3 {
		t.Fatalf("Items length = %d, want 3", len(resp.Items))
	}

	// Failed item reported inline, others unaffected
	if resp.Items[0].Error != "" || resp.Items[0].Artwork == nil {
		t.Errorf("Item 10 should succeed: %+v", resp.Items[0])
	}
	if resp.Items[1].Error == "" || resp.Items[1].Artwork != nil {
		t.Errorf("Item 20 should fail inline: %+v", resp.Items[1])
	}
	if resp.Items[2].Error != "" || resp.Items[2].Artwork == nil {
		t.Errorf("Item 30 should succeed: %+v", resp.Items[2])
	}
}

func TestSearchEndpoint_Validation(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	router := newRouter(newTestServer(t, mock))

	tests := []struct {
		name string
		url  string
	}{
		{"missing query", "/api/search"},
		{"bad hasImages", "/api/search?q=flower&hasImages=maybe"},
		{"page size too small", "/api/search?q=flower&pageSize=2"},
		{"page size too large", "/api/search?q=flower&pageSize=500"},
		{"negative page", "/api/search?q=flower&page=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", w.Code)
			}
		})
	}

	if mock.RequestCount() != 0 {
		t.Errorf("Invalid requests must not reach the API, got %d", mock.RequestCount())
	}
}

func TestSearchEndpoint_Unavailable(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	mock.SetResponse("/search", testutil.MockResponse{StatusCode: 503})

	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=flower", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", w.Code)
	}
}

func TestObjectEndpoint(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	mock.SetObjectResponse(436535, map[string]interface{}{
		"objectID": 436535,
		"title":    "Wheat Field with Cypresses",
	})

	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/api/objects/436535", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}

	var artwork met.Artwork
	if err := json.Unmarshal(w.Body.Bytes(), &artwork); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if artwork.ObjectID != 436535 {
		t.Errorf("ObjectID = %d, want 436535", artwork.ObjectID)
	}
	if artwork.Title != "Wheat Field with Cypresses" {
		t.Errorf("Title = %q", artwork.Title)
	}
}

func TestObjectEndpoint_NotFound(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	mock.SetObjectError(1, 404)

	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/api/objects/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockMet()
	defer mock.Close()
	router := newRouter(newTestServer(t, mock))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}
}
