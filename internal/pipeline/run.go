package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunState is the lifecycle of one orchestrator run.
type RunState string

const (
	RunRunning RunState = "running"
	RunDone    RunState = "done"
	RunStopped RunState = "stopped"
	RunError   RunState = "error"
)

// Terminal reports whether the run has finished.
func (s RunState) Terminal() bool {
	return s == RunDone || s == RunStopped || s == RunError
}

// Summary holds per-stage outcome counts for one run.
type Summary struct {
	Discovered int `json:"discovered"`
	Scored     int `json:"scored"`
	Generated  int `json:"generated"`
	Submitted  int `json:"submitted"`
	Confirmed  int `json:"confirmed"`
	Boosted    int `json:"boosted"`
	Failed     int `json:"failed"`
	TimedOut   int `json:"timed_out"`
}

// Run is one orchestrator execution. It owns its cancellation and an
// append-only log of progress lines; state lives in memory only and is
// discarded once observed (item state survives in the store).
type Run struct {
	id        string
	tag       string
	startedAt time.Time
	logLimit  int
	cancel    context.CancelFunc
	done      chan struct{}

	mu         sync.Mutex
	stage      string
	state      RunState
	summary    Summary
	err        error
	log        []string
	dropped    int
	finishedAt time.Time
}

func newRun(tag string, logLimit int, cancel context.CancelFunc) *Run {
	if logLimit <= 0 {
		logLimit = 500
	}
	return &Run{
		id:        uuid.NewString(),
		tag:       tag,
		startedAt: time.Now().UTC(),
		logLimit:  logLimit,
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     RunRunning,
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Tag returns the workflow tag the run is scoped to; empty means all tags.
func (r *Run) Tag() string { return r.tag }

// StartedAt returns when the run began.
func (r *Run) StartedAt() time.Time { return r.startedAt }

// State returns the current lifecycle state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Stage returns the stage currently executing, or the last stage reached.
func (r *Run) Stage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

// Summary returns a copy of the per-stage outcome counts.
func (r *Run) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Err returns the stage error that terminated the run, if any.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Log returns a snapshot of the progress log.
func (r *Run) Log() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]string, len(r.log))
	copy(snapshot, r.log)
	return snapshot
}

// Stop requests a clean halt. The stop is observed between stages and at
// every poll tick; in-flight network calls finish first.
func (r *Run) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Done closes once the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes or the context expires.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return nil
	}
}

func (r *Run) appendLog(format string, args ...any) {
	line := time.Now().UTC().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, line)
	if len(r.log) > r.logLimit {
		r.log = r.log[len(r.log)-r.logLimit:]
		r.dropped++
	}
}

func (r *Run) setStage(name string) {
	r.mu.Lock()
	r.stage = name
	r.mu.Unlock()
	r.appendLog("stage %s started", name)
}

func (r *Run) updateSummary(apply func(*Summary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apply(&r.summary)
}

func (r *Run) finish(state RunState, err error) {
	r.mu.Lock()
	if r.state.Terminal() {
		r.mu.Unlock()
		return
	}
	r.state = state
	r.err = err
	r.finishedAt = time.Now().UTC()
	summary := r.summary
	r.mu.Unlock()

	if err != nil {
		r.appendLog("run finished: %s (%v)", state, err)
	} else {
		r.appendLog("run finished: %s (discovered=%d scored=%d generated=%d submitted=%d confirmed=%d boosted=%d failed=%d timed_out=%d)",
			state, summary.Discovered, summary.Scored, summary.Generated, summary.Submitted,
			summary.Confirmed, summary.Boosted, summary.Failed, summary.TimedOut)
	}
	close(r.done)
}
