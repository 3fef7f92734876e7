package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quickrest/items-api/internal/handler"
	"github.com/quickrest/items-api/internal/model/item"
	"github.com/quickrest/items-api/internal/service/feed"
)

func newTestRouter() http.Handler {
	store := item.NewMemoryStore()
	broadcaster := feed.NewBroadcaster(8)
	return handler.NewRouter(store, broadcaster, handler.Options{
		CORSOrigin:    "*",
		FeedHeartbeat: time.Minute,
	})
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHomeRoute(t *testing.T) {
	r := newTestRouter()

	resp := get(t, r, "/")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Welcome to the Flask API!" {
		t.Fatalf("unexpected welcome message: %q", body["message"])
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()

	resp := get(t, r, "/healthz")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected status: %q", body["status"])
	}
	if body["instance"] == "" {
		t.Fatal("missing instance id")
	}
}

func TestUnmatchedRoute(t *testing.T) {
	r := newTestRouter()

	resp := get(t, r, "/nope")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Not found" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPatch, "/items", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	r := newTestRouter()

	// Create
	payload, _ := json.Marshal(map[string]string{"name": "Sample Item"})
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}

	// List
	resp = get(t, r, "/items")
	var listing struct {
		Items []item.Item `json:"items"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0] != (item.Item{ID: 1, Name: "Sample Item"}) {
		t.Fatalf("unexpected listing: %+v", listing.Items)
	}

	// Update
	payload, _ = json.Marshal(map[string]string{"name": "Updated Item"})
	req = httptest.NewRequest(http.MethodPut, "/items/1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.Code)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/items/1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.Code)
	}

	// Get after delete
	resp = get(t, r, "/items/1")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.Code)
	}
}
