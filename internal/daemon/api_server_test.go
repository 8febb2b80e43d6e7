package daemon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/api"
	"ripple/internal/pipeline"
	"ripple/internal/testsupport"
)

func newTestAPIServer(t *testing.T) (*apiServer, *Daemon) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	orch := pipeline.NewOrchestrator(store, cfg, pipeline.Deps{}, nil)
	d, err := New(cfg, store, orch, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if d.api == nil {
		t.Fatal("api server not configured")
	}
	return d.api, d
}

func TestAPIServerHandleItems(t *testing.T) {
	srv, d := newTestAPIServer(t)
	testsupport.SeedItem(t, d.store, "ext-1", "creator")

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	srv.handleItems(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.ItemListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	if resp.Items[0].ExternalID != "ext-1" {
		t.Fatalf("unexpected external id: %q", resp.Items[0].ExternalID)
	}
}

func TestAPIServerRejectsUnknownStatusFilter(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items?status=zombie", nil)
	w := httptest.NewRecorder()
	srv.handleItems(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAPIServerHandleItemNotFound(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items/42", nil)
	w := httptest.NewRecorder()
	srv.handleItem(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAPIServerHandleStatus(t *testing.T) {
	srv, _ := newTestAPIServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.handleStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.DaemonStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PID == 0 {
		t.Fatal("expected pid in status payload")
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with valid token, got %d", w.Code)
	}
}
