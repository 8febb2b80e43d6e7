package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ripple/internal/catalog"
	"ripple/internal/config"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// Deps bundles the external collaborators the pipeline stages consume.
type Deps struct {
	Source   ContentSource
	Scorer   RelevanceScorer
	Composer CommentComposer
	Comments CommentService
	Boosts   BoostService
}

const recentRunLimit = 20

// Orchestrator sequences pipeline stages end-to-end. Each run is scoped to
// one workflow tag (or all tags) and owns its own cancellation; concurrent
// runs over overlapping tags are rejected so only one run ever touches a
// given item at a time.
type Orchestrator struct {
	store  *catalog.Store
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]*Run
	recent []*Run
}

// NewOrchestrator constructs an orchestrator over the given store and
// collaborators.
func NewOrchestrator(store *catalog.Store, cfg *config.Config, deps Deps, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:  store,
		cfg:    cfg,
		deps:   deps,
		logger: logger.With(logging.String(logging.FieldComponent, "pipeline")),
		active: make(map[string]*Run),
	}
}

// StartRun begins one pipeline execution for the given workflow tag (empty
// tag runs every tag). It returns immediately with a handle; the stages
// execute on a background goroutine. Starting a second run over an
// overlapping tag is rejected while the first is active.
func (o *Orchestrator) StartRun(ctx context.Context, tag string) (*Run, error) {
	targets, err := o.store.Targets(ctx, tag)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "load targets", "", err)
	}
	if len(targets) == 0 {
		return nil, services.Wrap(services.ErrValidation, "run", "start",
			"no monitored targets configured for this tag", nil)
	}

	o.mu.Lock()
	if conflict := o.conflictingRunLocked(tag); conflict != nil {
		o.mu.Unlock()
		return nil, services.Wrap(services.ErrValidation, "run", "start",
			fmt.Sprintf("run %s is already active for tag %q", conflict.ID(), conflict.Tag()), nil)
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := newRun(tag, o.cfg.Pipeline.RunLogLimit, cancel)
	o.active[tag] = run
	o.mu.Unlock()

	runCtx = services.WithRunID(runCtx, run.ID())
	go o.execute(runCtx, run)
	return run, nil
}

// A run over one tag conflicts with another run over the same tag, and the
// all-tags run ("") conflicts with everything.
func (o *Orchestrator) conflictingRunLocked(tag string) *Run {
	if run, ok := o.active[tag]; ok {
		return run
	}
	if run, ok := o.active[""]; ok {
		return run
	}
	if tag == "" {
		for _, run := range o.active {
			return run
		}
	}
	return nil
}

// StopRun requests a clean halt of the identified run.
func (o *Orchestrator) StopRun(id string) bool {
	if run := o.RunByID(id); run != nil {
		run.Stop()
		return true
	}
	return false
}

// RunByID returns the active or recently finished run with the given id.
func (o *Orchestrator) RunByID(id string) *Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, run := range o.active {
		if run.ID() == id {
			return run
		}
	}
	for _, run := range o.recent {
		if run.ID() == id {
			return run
		}
	}
	return nil
}

// Runs returns the active runs followed by recently finished ones, newest
// first.
func (o *Orchestrator) Runs() []*Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	runs := make([]*Run, 0, len(o.active)+len(o.recent))
	for _, run := range o.active {
		runs = append(runs, run)
	}
	runs = append(runs, o.recent...)
	return runs
}

// Stop halts every active run and waits for them to finish.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.mu.Lock()
	running := make([]*Run, 0, len(o.active))
	for _, run := range o.active {
		running = append(running, run)
	}
	o.mu.Unlock()

	for _, run := range running {
		run.Stop()
	}
	for _, run := range running {
		_ = run.Wait(ctx)
	}
}

func (o *Orchestrator) retire(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, run.Tag())
	o.recent = append([]*Run{run}, o.recent...)
	if len(o.recent) > recentRunLimit {
		o.recent = o.recent[:recentRunLimit]
	}
}

func (o *Orchestrator) execute(ctx context.Context, run *Run) {
	defer o.retire(run)
	logger := o.logger.With(
		logging.String(logging.FieldRunID, run.ID()),
		logging.String(logging.FieldTag, run.Tag()),
	)
	logger.Info("run started", logging.String(logging.FieldEventType, "run_start"))

	stages := []func(context.Context, *Run, *slog.Logger) error{
		o.stageDiscover,
		o.stageScore,
		o.stageGenerate,
		o.stageSubmit,
		o.stageVerifySubmission,
		o.stageBoost,
		o.stageVerifyBoost,
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			run.finish(RunStopped, nil)
			logger.Info("run stopped", logging.String(logging.FieldEventType, "run_stop"))
			return
		}
		if err := stage(ctx, run, logger); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				run.finish(RunStopped, nil)
				logger.Info("run stopped", logging.String(logging.FieldEventType, "run_stop"))
				return
			}
			run.finish(RunError, err)
			logger.Error("run failed", logging.Error(err))
			return
		}
	}

	run.finish(RunDone, nil)
	summary := run.Summary()
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_done"),
		logging.Int("discovered", summary.Discovered),
		logging.Int("scored", summary.Scored),
		logging.Int("generated", summary.Generated),
		logging.Int("submitted", summary.Submitted),
		logging.Int("confirmed", summary.Confirmed),
		logging.Int("boosted", summary.Boosted),
		logging.Int("failed", summary.Failed),
		logging.Int("timed_out", summary.TimedOut))
}

func (o *Orchestrator) stageDiscover(ctx context.Context, run *Run, logger *slog.Logger) error {
	run.setStage("discover")
	discoverer := NewDiscoverer(o.store, o.deps.Source, logger)
	outcomes, err := discoverer.Run(ctx, run.Tag())
	if err != nil {
		return err
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			run.appendLog("discover: target %s failed: %v", outcome.Target.Value, outcome.Err)
			continue
		}
		run.appendLog("discover: target %s: %d found, %d new, %d refreshed",
			outcome.Target.Value, outcome.Found, outcome.Created, outcome.Refreshed)
		run.updateSummary(func(s *Summary) { s.Discovered += outcome.Created + outcome.Refreshed })
	}
	return nil
}

func (o *Orchestrator) runStage(ctx context.Context, run *Run, action Action, eligible []catalog.Status, count func(*Summary, int)) error {
	run.setStage(action.Name())
	items, err := o.store.ListByTag(ctx, run.Tag(), eligible...)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, action.Name(), "list items", "", err)
	}

	runner := NewRunner(o.store, o.logger)
	result, err := runner.RunBatch(ctx, action, items)
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			run.appendLog("%s: item %d failed: %v", action.Name(), outcome.ItemID, outcome.Err)
		}
	}
	run.appendLog("%s: %d ok, %d failed", action.Name(), result.Succeeded(), result.Failed())
	run.updateSummary(func(s *Summary) {
		count(s, result.Succeeded())
		s.Failed += result.Failed()
	})
	return nil
}

func (o *Orchestrator) stageScore(ctx context.Context, run *Run, logger *slog.Logger) error {
	action := NewScoreAction(o.store, o.deps.Scorer, run.Tag(), logger)
	return o.runStage(ctx, run, action,
		[]catalog.Status{catalog.StatusDiscovered},
		func(s *Summary, ok int) { s.Scored += ok })
}

func (o *Orchestrator) stageGenerate(ctx context.Context, run *Run, logger *slog.Logger) error {
	action := NewGenerateAction(o.store, o.deps.Composer, run.Tag(), logger)
	return o.runStage(ctx, run, action,
		[]catalog.Status{catalog.StatusScored},
		func(s *Summary, ok int) { s.Generated += ok })
}

func (o *Orchestrator) stageSubmit(ctx context.Context, run *Run, logger *slog.Logger) error {
	action := NewSubmitAction(o.store, o.deps.Comments, logger)
	return o.runStage(ctx, run, action,
		[]catalog.Status{catalog.StatusGenerated},
		func(s *Summary, ok int) { s.Submitted += ok })
}

func (o *Orchestrator) stageVerifySubmission(ctx context.Context, run *Run, logger *slog.Logger) error {
	run.setStage("verify-submission")
	pending, err := o.store.ListByTag(ctx, run.Tag(), catalog.StatusSubmitted)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "verify-submission", "list items", "", err)
	}
	if len(pending) == 0 {
		run.appendLog("verify-submission: nothing pending")
		return nil
	}

	verifier := NewSubmissionVerifier(o.deps.Comments, logger)
	poller := &Poller{
		Store:       o.store,
		Logger:      logger,
		Interval:    time.Duration(o.cfg.Pipeline.ConfirmInterval) * time.Second,
		MaxAttempts: o.cfg.Pipeline.ConfirmMaxAttempts,
		OnTick: func(snapshot Snapshot) {
			run.appendLog("verify-submission: tick %d/%d, %d pending, %d resolved",
				snapshot.Attempt, snapshot.MaxAttempts, snapshot.Pending, snapshot.Resolved)
		},
	}
	result, err := poller.Run(ctx, pending, verifier.Check)
	if err != nil {
		return err
	}

	confirmed, failed := 0, 0
	for _, item := range result.Resolved {
		if item.Status == catalog.StatusConfirmed {
			confirmed++
		} else {
			failed++
		}
	}
	for _, item := range result.TimedOut {
		run.appendLog("verify-submission: item %d still pending after %d attempts", item.ID, result.Attempts)
	}
	run.appendLog("verify-submission: %d confirmed, %d failed, %d timed out", confirmed, failed, len(result.TimedOut))
	run.updateSummary(func(s *Summary) {
		s.Confirmed += confirmed
		s.Failed += failed
		s.TimedOut += len(result.TimedOut)
	})
	return nil
}

func (o *Orchestrator) stageBoost(ctx context.Context, run *Run, logger *slog.Logger) error {
	action := NewBoostAction(o.store, o.deps.Comments, o.deps.Boosts, logger)
	run.setStage(action.Name())
	items, err := o.store.ListByTag(ctx, run.Tag(), catalog.StatusConfirmed)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, action.Name(), "list items", "", err)
	}
	eligible := 0
	for _, item := range items {
		if action.Eligible(item) {
			eligible++
		}
	}
	if eligible == 0 {
		run.appendLog("boost: nothing eligible")
		return nil
	}

	runner := NewRunner(o.store, o.logger)
	result, err := runner.RunBatch(ctx, action, items)
	if err != nil {
		return err
	}
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			run.appendLog("boost: item %d failed: %v", outcome.ItemID, outcome.Err)
		}
	}
	run.appendLog("boost: %d ok, %d failed", result.Succeeded(), result.Failed())
	run.updateSummary(func(s *Summary) {
		s.Boosted += result.Succeeded()
		s.Failed += result.Failed()
	})
	return nil
}

func (o *Orchestrator) stageVerifyBoost(ctx context.Context, run *Run, logger *slog.Logger) error {
	run.setStage("verify-boost")
	items, err := o.store.ListByTag(ctx, run.Tag(), catalog.StatusBoosted)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "verify-boost", "list items", "", err)
	}
	pending := items[:0]
	for _, item := range items {
		if item.Boost != nil && item.Boost.Status == catalog.BoostOrdered {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		run.appendLog("verify-boost: nothing pending")
		return nil
	}

	verifier := NewBoostVerifier(o.deps.Boosts, logger)
	poller := &Poller{
		Store:       o.store,
		Logger:      logger,
		Interval:    time.Duration(o.cfg.Pipeline.ConfirmInterval) * time.Second,
		MaxAttempts: o.cfg.Pipeline.BoostVerifyMaxAttempts,
		OnTick: func(snapshot Snapshot) {
			run.appendLog("verify-boost: tick %d/%d, %d pending, %d resolved",
				snapshot.Attempt, snapshot.MaxAttempts, snapshot.Pending, snapshot.Resolved)
		},
	}
	result, err := poller.Run(ctx, pending, verifier.Check)
	if err != nil {
		return err
	}

	// Verification is best-effort: an order still undelivered when the
	// budget runs out leaves the item completed with the boost marked
	// unverified.
	for _, item := range result.TimedOut {
		item.Boost.Status = catalog.BoostUnverified
		item.Status = catalog.StatusCompleted
		if err := o.store.Update(ctx, item); err != nil {
			logger.Error("failed to persist unverified boost",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.Error(err))
			continue
		}
		run.appendLog("verify-boost: item %d unverified after %d attempts", item.ID, result.Attempts)
	}
	run.appendLog("verify-boost: %d resolved, %d unverified", len(result.Resolved), len(result.TimedOut))
	return nil
}

// SubmitItem runs the submission stage for one item outside a full run.
func (o *Orchestrator) SubmitItem(ctx context.Context, itemID int64) (*catalog.Item, error) {
	action := NewSubmitAction(o.store, o.deps.Comments, o.logger)
	return o.runSingle(ctx, itemID, action)
}

// BoostItem runs the boost stage for one item outside a full run.
func (o *Orchestrator) BoostItem(ctx context.Context, itemID int64) (*catalog.Item, error) {
	action := NewBoostAction(o.store, o.deps.Comments, o.deps.Boosts, o.logger)
	return o.runSingle(ctx, itemID, action)
}

func (o *Orchestrator) runSingle(ctx context.Context, itemID int64, action Action) (*catalog.Item, error) {
	item, err := o.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, services.Wrap(services.ErrValidation, action.Name(), "load item",
			fmt.Sprintf("item %d not found", itemID), nil)
	}
	if !action.Eligible(item) {
		return nil, services.Wrap(services.ErrValidation, action.Name(), "check eligibility",
			fmt.Sprintf("item %d is not eligible (status %s)", itemID, item.Status), nil)
	}
	if err := action.Prepare(ctx); err != nil {
		return nil, err
	}
	item.Status = action.ProcessingStatus()
	if err := action.Execute(ctx, item); err != nil {
		return nil, err
	}
	if err := o.store.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
