package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ripple/internal/ai"
	"ripple/internal/catalog"
	"ripple/internal/pipeline"
	"ripple/internal/scrape"
	"ripple/internal/services"
	"ripple/internal/testsupport"
	"ripple/internal/ugc"
)

func newOrchestrator(t *testing.T, deps pipeline.Deps) (*pipeline.Orchestrator, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedBrandProfile(t, store)
	if _, err := store.AddTarget(context.Background(), catalog.TargetUsername, "creator", "general"); err != nil {
		t.Fatalf("AddTarget: %v", err)
	}
	return pipeline.NewOrchestrator(store, cfg, deps, nil), store
}

func waitForRun(t *testing.T, run *pipeline.Run) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := run.Wait(ctx); err != nil {
		t.Fatalf("run did not finish: %v", err)
	}
}

func TestRunCarriesItemsThroughFullFunnel(t *testing.T) {
	source := &stubSource{profiles: map[string][]scrape.Video{
		"creator": {
			videoFixture("v1", "creator", "unrelated dance video"),
			videoFixture("v2", "creator", "skincare morning routine"),
			videoFixture("v3", "creator", "budget skincare tips"),
		},
	}}
	scorer := &stubScorer{results: map[string]ai.Analysis{
		"unrelated dance video":    {Relevant: false, Score: 10, Reason: "off topic"},
		"skincare morning routine": {Relevant: true, Score: 80, Reason: "on brand"},
		"budget skincare tips":     {Relevant: true, Score: 40, Reason: "adjacent"},
	}}
	comments := newStubComments()
	// The first submission confirms on the second poll, the second fails
	// on the first.
	comments.scriptStatus("r1",
		ugc.Comment{Status: "pending"},
		ugc.Comment{Status: "completed", CommentURL: "https://www.tiktok.com/@creator/video/v2?cid=1"},
	)
	comments.scriptStatus("r2", ugc.Comment{Status: "failed", Error: "account flagged"})
	boosts := &stubBoosts{}

	orch, store := newOrchestrator(t, pipeline.Deps{
		Source:   source,
		Scorer:   scorer,
		Composer: &stubComposer{},
		Comments: comments,
		Boosts:   boosts,
	})

	run, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	waitForRun(t, run)

	if run.State() != pipeline.RunDone {
		t.Fatalf("run state = %s, err = %v", run.State(), run.Err())
	}

	want := pipeline.Summary{
		Discovered: 3,
		Scored:     3,
		Generated:  2,
		Submitted:  2,
		Confirmed:  1,
		Boosted:    1,
		Failed:     1,
	}
	if got := run.Summary(); got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}

	skipped := itemByExternalID(t, store, "v1")
	assertStatus(t, skipped, catalog.StatusSkipped)

	completed := itemByExternalID(t, store, "v2")
	assertStatus(t, completed, catalog.StatusCompleted)
	if completed.Submission == nil || completed.Submission.ResultURL == "" {
		t.Fatalf("confirmed submission missing result url: %#v", completed.Submission)
	}
	if completed.Boost == nil || completed.Boost.Status != catalog.BoostCompleted {
		t.Fatalf("unexpected boost: %#v", completed.Boost)
	}

	failed := itemByExternalID(t, store, "v3")
	assertStatus(t, failed, catalog.StatusFailed)
	if failed.ErrorMessage != "account flagged" {
		t.Fatalf("unexpected error message %q", failed.ErrorMessage)
	}

	lines := run.Log()
	if !containsLine(lines, "verify-submission: tick 1/3") {
		t.Fatalf("missing first poll tick in log: %v", lines)
	}
	if !containsLine(lines, "verify-submission: tick 2/3") {
		t.Fatalf("missing second poll tick in log: %v", lines)
	}
	if containsLine(lines, "verify-submission: tick 3/3") {
		t.Fatalf("poller kept going after the pending set emptied: %v", lines)
	}
}

func TestSecondRunSkipsAlreadyProcessedItems(t *testing.T) {
	source := &stubSource{profiles: map[string][]scrape.Video{
		"creator": {videoFixture("v1", "creator", "skincare morning routine")},
	}}
	comments := newStubComments()
	comments.scriptStatus("r1", ugc.Comment{Status: "completed", CommentURL: "https://www.tiktok.com/@creator/video/v1?cid=1"})
	boosts := &stubBoosts{}

	orch, store := newOrchestrator(t, pipeline.Deps{
		Source:   source,
		Scorer:   &stubScorer{results: map[string]ai.Analysis{"skincare morning routine": {Relevant: true, Score: 90}}},
		Composer: &stubComposer{},
		Comments: comments,
		Boosts:   boosts,
	})

	run, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	waitForRun(t, run)
	if run.State() != pipeline.RunDone {
		t.Fatalf("first run state = %s, err = %v", run.State(), run.Err())
	}
	if boosts.orderCount() != 1 {
		t.Fatalf("first run placed %d orders", boosts.orderCount())
	}
	assertStatus(t, itemByExternalID(t, store, "v1"), catalog.StatusCompleted)

	// Re-running over the same tag re-discovers the item but every later
	// stage finds nothing eligible: no new submission, no new order.
	rerun, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("second StartRun: %v", err)
	}
	waitForRun(t, rerun)
	if rerun.State() != pipeline.RunDone {
		t.Fatalf("second run state = %s, err = %v", rerun.State(), rerun.Err())
	}

	summary := rerun.Summary()
	if summary.Discovered != 1 || summary.Submitted != 0 || summary.Boosted != 0 {
		t.Fatalf("second run summary = %+v", summary)
	}
	if boosts.orderCount() != 1 {
		t.Fatalf("second run placed another order, total %d", boosts.orderCount())
	}
	if comments.created != 1 {
		t.Fatalf("second run created another comment, total %d", comments.created)
	}
	if !containsLine(rerun.Log(), "boost: nothing eligible") {
		t.Fatalf("missing boost short-circuit in log: %v", rerun.Log())
	}
}

func TestStartRunRejectsOverlappingTags(t *testing.T) {
	source := &stubSource{profiles: map[string][]scrape.Video{
		"creator": {videoFixture("v1", "creator", "skincare morning routine")},
	}}
	gate := make(chan struct{})
	scorer := &stubScorer{gate: gate}

	orch, _ := newOrchestrator(t, pipeline.Deps{
		Source:   source,
		Scorer:   scorer,
		Composer: &stubComposer{},
		Comments: newStubComments(),
		Boosts:   &stubBoosts{},
	})

	run, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if _, err := orch.StartRun(context.Background(), "general"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for same tag, got %v", err)
	}
	if _, err := orch.StartRun(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for all-tags run, got %v", err)
	}

	close(gate)
	waitForRun(t, run)

	// Once the first run retires the tag frees up again.
	rerun, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun after retire: %v", err)
	}
	waitForRun(t, rerun)
}

func TestStopHaltsRunBetweenItems(t *testing.T) {
	source := &stubSource{profiles: map[string][]scrape.Video{
		"creator": {
			videoFixture("v1", "creator", "first clip"),
			videoFixture("v2", "creator", "second clip"),
		},
	}}
	gate := make(chan struct{})
	scorer := &stubScorer{gate: gate}
	comments := newStubComments()
	boosts := &stubBoosts{}

	orch, store := newOrchestrator(t, pipeline.Deps{
		Source:   source,
		Scorer:   scorer,
		Composer: &stubComposer{},
		Comments: comments,
		Boosts:   boosts,
	})

	run, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	// Hold the run inside the score stage, stop it, then release the
	// scorer so the stage can observe the cancellation.
	gate <- struct{}{}
	run.Stop()
	close(gate)
	waitForRun(t, run)

	if run.State() != pipeline.RunStopped {
		t.Fatalf("run state = %s, err = %v", run.State(), run.Err())
	}
	if run.Err() != nil {
		t.Fatalf("a requested stop is not an error: %v", run.Err())
	}

	// No later stage ran: nothing was ever submitted or boosted.
	if comments.created != 0 {
		t.Fatalf("stopped run still created %d comments", comments.created)
	}
	if boosts.orderCount() != 0 {
		t.Fatalf("stopped run still placed %d orders", boosts.orderCount())
	}
	items, err := store.ListByTag(context.Background(), "general")
	if err != nil {
		t.Fatalf("ListByTag: %v", err)
	}
	for _, item := range items {
		if item.Status == catalog.StatusSubmitted || item.Status == catalog.StatusBoosted {
			t.Fatalf("item %s advanced past the stop: %s", item.ExternalID, item.Status)
		}
	}
}

func TestStartRunRequiresTargets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	orch := pipeline.NewOrchestrator(store, cfg, pipeline.Deps{}, nil)

	if _, err := orch.StartRun(context.Background(), "general"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without targets, got %v", err)
	}
}

func TestSubmitItemRejectsIneligibleItem(t *testing.T) {
	comments := newStubComments()
	orch, store := newOrchestrator(t, pipeline.Deps{Comments: comments, Boosts: &stubBoosts{}})

	item := testsupport.SeedItem(t, store, "v1", "creator")
	if _, err := orch.SubmitItem(context.Background(), item.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for discovered item, got %v", err)
	}

	item.Status = catalog.StatusGenerated
	item.Comment = "hand-picked comment"
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	submitted, err := orch.SubmitItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("SubmitItem: %v", err)
	}
	assertStatus(t, submitted, catalog.StatusSubmitted)
	if submitted.Submission == nil || submitted.Submission.ExternalRef != "r1" {
		t.Fatalf("unexpected submission: %#v", submitted.Submission)
	}

	// Stale callers retrying the same item get rejected, not re-submitted.
	if _, err := orch.SubmitItem(context.Background(), item.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error on retry, got %v", err)
	}
	if comments.created != 1 {
		t.Fatalf("retry created another comment, total %d", comments.created)
	}
}

func TestRunsTracksRecentlyFinished(t *testing.T) {
	source := &stubSource{profiles: map[string][]scrape.Video{
		"creator": {videoFixture("v1", "creator", "clip")},
	}}
	orch, _ := newOrchestrator(t, pipeline.Deps{
		Source:   source,
		Scorer:   &stubScorer{},
		Composer: &stubComposer{},
		Comments: newStubComments(),
		Boosts:   &stubBoosts{},
	})

	run, err := orch.StartRun(context.Background(), "general")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	waitForRun(t, run)

	if got := orch.RunByID(run.ID()); got == nil {
		t.Fatal("finished run no longer addressable by id")
	}
	runs := orch.Runs()
	if len(runs) != 1 || runs[0].ID() != run.ID() {
		t.Fatalf("unexpected runs listing: %d entries", len(runs))
	}
}
