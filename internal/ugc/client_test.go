package ugc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/ugc"
)

func newTestUGCClient(t *testing.T, handler http.HandlerFunc) *ugc.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ugc.NewClient(config.UGC{APIKey: "ugc-key", BaseURL: server.URL})
}

func TestCreateComment(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comment/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ugc-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["accountId"] != "acct-1" || payload["commentText"] != "nice video" {
			t.Errorf("unexpected payload: %v", payload)
		}
		w.Write([]byte(`{"code":200,"data":{"commentId":"cmt-42"}}`))
	})

	ref, err := client.CreateComment(context.Background(), "acct-1", "https://www.tiktok.com/@a/video/1", "nice video")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if ref != "cmt-42" {
		t.Fatalf("unexpected comment ref %q", ref)
	}
}

func TestCreateCommentReportsAPIError(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":403,"message":"account not permitted"}`))
	})
	if _, err := client.CreateComment(context.Background(), "acct-1", "url", "text"); err == nil {
		t.Fatal("expected error for non-200 envelope code")
	}
}

func TestCreateCommentRejectsEmptyResponse(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := client.CreateComment(context.Background(), "acct-1", "url", "text"); err == nil {
		t.Fatal("expected error for empty response body")
	}
}

func TestCommentStatus(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			CommentIDs []string `json:"commentIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.CommentIDs) != 1 || payload.CommentIDs[0] != "cmt-42" {
			t.Errorf("unexpected comment ids: %v", payload.CommentIDs)
		}
		w.Write([]byte(`{"code":200,"data":[{"id":"cmt-42","status":"completed","commentUrl":"https://www.tiktok.com/@a/video/1?cid=9"}]}`))
	})

	comment, err := client.CommentStatus(context.Background(), "cmt-42")
	if err != nil {
		t.Fatalf("CommentStatus failed: %v", err)
	}
	if comment.Status != "completed" || comment.CommentURL == "" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
}

func TestCommentStatusMissingComment(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":[]}`))
	})
	if _, err := client.CommentStatus(context.Background(), "cmt-gone"); err == nil {
		t.Fatal("expected error when comment is absent from response")
	}
}

func TestCommentsEmptyInput(t *testing.T) {
	client := ugc.NewClient(config.UGC{APIKey: "k"})
	comments, err := client.Comments(context.Background(), nil)
	if err != nil || comments != nil {
		t.Fatalf("expected no-op for empty ids, got %v %v", comments, err)
	}
}

func TestAccounts(t *testing.T) {
	client := newTestUGCClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":200,"data":[{"id":"acct-1","type":"tiktok","username":"brandvoice","status":"setup"}]}`))
	})

	accounts, err := client.Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Username != "brandvoice" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := ugc.NewClient(config.UGC{})
	if _, err := client.CreateComment(context.Background(), "a", "b", "c"); err == nil {
		t.Fatal("expected error without api key")
	}
}
