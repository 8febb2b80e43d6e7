package catalog_test

import (
	"strings"
	"testing"

	"ripple/internal/catalog"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input    string
		expected catalog.Status
		ok       bool
	}{
		{"discovered", catalog.StatusDiscovered, true},
		{" Scored ", catalog.StatusScored, true},
		{"BOOSTED", catalog.StatusBoosted, true},
		{"", "", false},
		{"ripping", "", false},
	}
	for _, tc := range cases {
		status, ok := catalog.ParseStatus(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
		}
		if ok && status != tc.expected {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.input, status, tc.expected)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := map[catalog.Status]bool{
		catalog.StatusSkipped:   true,
		catalog.StatusCompleted: true,
		catalog.StatusFailed:    true,
	}
	for _, status := range catalog.AllStatuses() {
		if got := status.IsTerminal(); got != terminal[status] {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, terminal[status])
		}
	}
}

func TestSubmissionAdvanceForwardOnly(t *testing.T) {
	sub := &catalog.Submission{ExternalRef: "ref-1", Status: catalog.SubmissionPending}

	if err := sub.Advance(catalog.SubmissionRunning, ""); err != nil {
		t.Fatalf("pending -> running: %v", err)
	}
	if err := sub.Advance(catalog.SubmissionPending, ""); err == nil {
		t.Fatal("expected regression running -> pending to be rejected")
	}
	if err := sub.Advance(catalog.SubmissionCompleted, "https://example.com/c/1"); err != nil {
		t.Fatalf("running -> completed: %v", err)
	}
	if sub.ResultURL != "https://example.com/c/1" {
		t.Fatalf("unexpected result url %q", sub.ResultURL)
	}
	if err := sub.Advance(catalog.SubmissionRunning, ""); err == nil {
		t.Fatal("expected terminal submission to reject further transitions")
	}
	// Re-applying the terminal state is a harmless no-op.
	if err := sub.Advance(catalog.SubmissionCompleted, ""); err != nil {
		t.Fatalf("completed -> completed: %v", err)
	}
	if sub.ResultURL != "https://example.com/c/1" {
		t.Fatal("result url must survive a redundant terminal advance")
	}
}

func TestSubmissionAdvanceRejectsUnknownStatus(t *testing.T) {
	sub := &catalog.Submission{Status: catalog.SubmissionPending}
	if err := sub.Advance(catalog.SubmissionStatus("weird"), ""); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestItemPostURL(t *testing.T) {
	item := &catalog.Item{ExternalID: "7311", Author: "creator"}
	if got := item.PostURL(); got != "https://www.tiktok.com/@creator/video/7311" {
		t.Fatalf("unexpected post url %q", got)
	}
}

func TestBrandProfileContext(t *testing.T) {
	profile := catalog.BrandProfile{
		ProductName:        "GlowKit",
		ProductDescription: "A skincare starter kit.",
		TargetAudience:     "young adults",
	}
	if !profile.Configured() {
		t.Fatal("expected profile with name and description to be configured")
	}
	rendered := profile.Context()
	for _, want := range []string{"GlowKit", "skincare starter kit", "young adults"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("context missing %q:\n%s", want, rendered)
		}
	}
	if strings.Contains(rendered, "Persona:") {
		t.Fatal("empty persona must be omitted from context")
	}
}

func TestParseTargetType(t *testing.T) {
	if tt, ok := catalog.ParseTargetType("Username"); !ok || tt != catalog.TargetUsername {
		t.Fatalf("ParseTargetType(Username) = %q, %v", tt, ok)
	}
	if tt, ok := catalog.ParseTargetType("hashtag"); !ok || tt != catalog.TargetHashtag {
		t.Fatalf("ParseTargetType(hashtag) = %q, %v", tt, ok)
	}
	if _, ok := catalog.ParseTargetType("channel"); ok {
		t.Fatal("expected unknown target type to fail")
	}
}
