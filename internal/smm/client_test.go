package smm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/smm"
)

func newTestSMMClient(t *testing.T, handler http.HandlerFunc) *smm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return smm.NewClient(config.SMM{
		APIKey:    "smm-key",
		ServiceID: "171",
		BaseURL:   server.URL,
	})
}

func TestOrderCommentLikes(t *testing.T) {
	client := newTestSMMClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("key") != "smm-key" || r.PostForm.Get("action") != "add" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("service") != "171" || r.PostForm.Get("quantity") != "100" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("username") != "brandvoice" {
			t.Errorf("unexpected username %q", r.PostForm.Get("username"))
		}
		w.Write([]byte(`{"order": 99241}`))
	})

	ref, err := client.OrderCommentLikes(context.Background(), "https://www.tiktok.com/@a/video/1", "brandvoice", 0)
	if err != nil {
		t.Fatalf("OrderCommentLikes failed: %v", err)
	}
	if ref != "99241" {
		t.Fatalf("unexpected order ref %q", ref)
	}
}

func TestOrderCommentLikesReportsAPIError(t *testing.T) {
	client := newTestSMMClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "not enough funds"}`))
	})
	if _, err := client.OrderCommentLikes(context.Background(), "link", "user", 50); err == nil {
		t.Fatal("expected api error")
	}
}

func TestCheckOrder(t *testing.T) {
	client := newTestSMMClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("action") != "status" || r.PostForm.Get("order") != "99241" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		w.Write([]byte(`{"status":"Completed","charge":"0.10","remains":"0"}`))
	})

	status, err := client.CheckOrder(context.Background(), "99241")
	if err != nil {
		t.Fatalf("CheckOrder failed: %v", err)
	}
	if !status.Completed() || status.Failed() {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestOrderStatusClassification(t *testing.T) {
	cases := []struct {
		status    string
		completed bool
		failed    bool
	}{
		{"Completed", true, false},
		{"In progress", false, false},
		{"Pending", false, false},
		{"Canceled", false, true},
		{"Refunded", false, true},
	}
	for _, tc := range cases {
		s := smm.OrderStatus{Status: tc.status}
		if s.Completed() != tc.completed || s.Failed() != tc.failed {
			t.Errorf("status %q: completed=%v failed=%v", tc.status, s.Completed(), s.Failed())
		}
	}
}

func TestClientRequiresConfiguration(t *testing.T) {
	bare := smm.NewClient(config.SMM{})
	if _, err := bare.OrderCommentLikes(context.Background(), "link", "user", 10); err == nil {
		t.Fatal("expected error without service id")
	}
	noKey := smm.NewClient(config.SMM{ServiceID: "1"})
	if _, err := noKey.OrderCommentLikes(context.Background(), "link", "user", 10); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := noKey.CheckOrder(context.Background(), " "); err == nil {
		t.Fatal("expected error without order ref")
	}
}

func TestQuantityDefaults(t *testing.T) {
	if q := smm.NewClient(config.SMM{}).Quantity(); q != 100 {
		t.Fatalf("expected default quantity 100, got %d", q)
	}
	if q := smm.NewClient(config.SMM{BoostQuantity: 250}).Quantity(); q != 250 {
		t.Fatalf("expected configured quantity 250, got %d", q)
	}
}
