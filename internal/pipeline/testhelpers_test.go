package pipeline_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"ripple/internal/ai"
	"ripple/internal/catalog"
	"ripple/internal/scrape"
	"ripple/internal/smm"
	"ripple/internal/ugc"
)

// stubSource serves canned videos per target value.
type stubSource struct {
	mu       sync.Mutex
	profiles map[string][]scrape.Video
	hashtags map[string][]scrape.Video
	err      error
}

func (s *stubSource) ProfileVideos(ctx context.Context, handle string) ([]scrape.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles[handle], nil
}

func (s *stubSource) HashtagVideos(ctx context.Context, hashtag string) ([]scrape.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.hashtags[hashtag], nil
}

// stubScorer scores by a per-description table, defaulting to the real
// heuristic when a description is not listed.
type stubScorer struct {
	mu      sync.Mutex
	results map[string]ai.Analysis
	gate    chan struct{}
	calls   int
}

func (s *stubScorer) Analyze(ctx context.Context, description, brandContext, customPrompt string) ai.Analysis {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if analysis, ok := s.results[description]; ok {
		return analysis
	}
	return ai.HeuristicAnalysis(description, brandContext)
}

type stubComposer struct {
	mu    sync.Mutex
	calls int
}

func (s *stubComposer) Compose(ctx context.Context, description, brandContext, persona, customPrompt string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return "great take on " + description, false
}

// stubComments assigns sequential refs on creation and replays a scripted
// status sequence per ref, repeating the last entry once exhausted.
type stubComments struct {
	mu         sync.Mutex
	refPrefix  string
	created    int
	createErr  map[string]error // keyed by comment text
	script     map[string][]ugc.Comment
	statusTick map[string]int
	accounts   []ugc.Account
}

func newStubComments() *stubComments {
	return &stubComments{
		refPrefix:  "r",
		createErr:  make(map[string]error),
		script:     make(map[string][]ugc.Comment),
		statusTick: make(map[string]int),
		accounts: []ugc.Account{
			{ID: "acct-1", Type: "tiktok", Username: "brandvoice", Status: "setup"},
		},
	}
}

func (s *stubComments) CreateComment(ctx context.Context, accountID, postURL, commentText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[commentText]; err != nil {
		return "", err
	}
	s.created++
	return fmt.Sprintf("%s%d", s.refPrefix, s.created), nil
}

// scriptStatus registers the tick-by-tick remote states for one ref.
func (s *stubComments) scriptStatus(ref string, states ...ugc.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range states {
		states[i].ID = ref
	}
	s.script[ref] = states
}

func (s *stubComments) Comments(ctx context.Context, commentIDs []string) ([]ugc.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ugc.Comment, 0, len(commentIDs))
	for _, ref := range commentIDs {
		states := s.script[ref]
		if len(states) == 0 {
			out = append(out, ugc.Comment{ID: ref, Status: "pending"})
			continue
		}
		tick := s.statusTick[ref]
		if tick >= len(states) {
			tick = len(states) - 1
		}
		s.statusTick[ref]++
		out = append(out, states[tick])
	}
	return out, nil
}

func (s *stubComments) Accounts(ctx context.Context) ([]ugc.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts, nil
}

type stubBoosts struct {
	mu       sync.Mutex
	orders   int
	orderErr error
	status   smm.OrderStatus
	checks   int
}

func (s *stubBoosts) OrderCommentLikes(ctx context.Context, link, username string, quantity int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderErr != nil {
		return "", s.orderErr
	}
	s.orders++
	return fmt.Sprintf("order-%d", s.orders), nil
}

func (s *stubBoosts) CheckOrder(ctx context.Context, orderRef string) (smm.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	if s.status.Status == "" {
		return smm.OrderStatus{Status: "Completed"}, nil
	}
	return s.status, nil
}

func (s *stubBoosts) Quantity() int { return 100 }

func (s *stubBoosts) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders
}

func seedBrandProfile(t *testing.T, store *catalog.Store) {
	t.Helper()
	err := store.SaveBrandProfile(context.Background(), catalog.BrandProfile{
		ProductName:        "GlowKit",
		ProductDescription: "A skincare starter kit for sensitive skin.",
		TargetAudience:     "young adults",
		Persona:            "friendly skincare enthusiast",
		UGCAccountID:       "acct-1",
	})
	if err != nil {
		t.Fatalf("SaveBrandProfile: %v", err)
	}
}

func videoFixture(id, author, description string) scrape.Video {
	return scrape.Video{
		ExternalID:  id,
		Author:      author,
		Description: description,
		DiggCount:   10,
		PlayCount:   1000,
	}
}

func itemByExternalID(t *testing.T, store *catalog.Store, externalID string) *catalog.Item {
	t.Helper()
	item, err := store.GetByExternalID(context.Background(), externalID)
	if err != nil {
		t.Fatalf("GetByExternalID(%s): %v", externalID, err)
	}
	if item == nil {
		t.Fatalf("item %s not found", externalID)
	}
	return item
}

func assertStatus(t *testing.T, item *catalog.Item, want catalog.Status) {
	t.Helper()
	if item.Status != want {
		t.Fatalf("item %s status = %s, want %s", item.ExternalID, item.Status, want)
	}
}

func containsLine(lines []string, fragment string) bool {
	for _, line := range lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}
