package pipeline

import (
	"context"
	"log/slog"
	"time"

	"ripple/internal/catalog"
	"ripple/internal/logging"
)

// CheckFunc queries remote status for every still-pending item in one
// batched call. It mutates and returns the items that resolved this tick;
// the poller persists them. Items it does not return stay pending.
type CheckFunc func(ctx context.Context, pending []*catalog.Item) ([]*catalog.Item, error)

// Snapshot is emitted after every poll tick.
type Snapshot struct {
	Attempt     int
	MaxAttempts int
	Pending     int
	Resolved    int
}

// PollResult is the final outcome of one poller run. Items still pending
// when the attempt budget runs out land in TimedOut; exhausting the budget
// is an expected outcome, not an error.
type PollResult struct {
	Resolved []*catalog.Item
	TimedOut []*catalog.Item
	Attempts int
}

// Poller repeatedly re-checks remote status for items awaiting asynchronous
// completion. It stops when the pending set empties or MaxAttempts is
// reached, and observes cancellation at every tick.
type Poller struct {
	Store       *catalog.Store
	Logger      *slog.Logger
	Interval    time.Duration
	MaxAttempts int
	// OnTick receives a snapshot after each tick. Optional.
	OnTick func(Snapshot)
}

// Run polls until every item resolves or the attempt budget is exhausted.
// The first tick fires immediately; Interval elapses between subsequent
// ticks. The returned error is non-nil only for cancellation.
func (p *Poller) Run(ctx context.Context, pending []*catalog.Item, check CheckFunc) (PollResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	remaining := make([]*catalog.Item, 0, len(pending))
	for _, item := range pending {
		if item != nil {
			remaining = append(remaining, item)
		}
	}

	var result PollResult
	for attempt := 1; attempt <= maxAttempts && len(remaining) > 0; attempt++ {
		if attempt > 1 {
			if err := p.wait(ctx); err != nil {
				result.TimedOut = remaining
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			result.TimedOut = remaining
			return result, err
		}
		result.Attempts = attempt

		resolved, err := check(ctx, remaining)
		if err != nil {
			if ctx.Err() != nil {
				result.TimedOut = remaining
				return result, ctx.Err()
			}
			// A whole-batch check failure consumes the attempt; individual
			// items stay pending for the next tick.
			logger.Warn("status check failed", logging.Error(err))
			p.emit(Snapshot{Attempt: attempt, MaxAttempts: maxAttempts, Pending: len(remaining), Resolved: len(result.Resolved)})
			continue
		}

		if len(resolved) > 0 {
			persisted := make(map[int64]struct{}, len(resolved))
			for _, item := range resolved {
				if err := p.Store.Update(ctx, item); err != nil {
					logger.Error("failed to persist resolved item",
						logging.Int64(logging.FieldItemID, item.ID),
						logging.Error(err))
					continue
				}
				persisted[item.ID] = struct{}{}
				result.Resolved = append(result.Resolved, item)
			}

			next := remaining[:0]
			for _, item := range remaining {
				if _, done := persisted[item.ID]; !done {
					next = append(next, item)
				}
			}
			remaining = next
		}

		p.emit(Snapshot{Attempt: attempt, MaxAttempts: maxAttempts, Pending: len(remaining), Resolved: len(result.Resolved)})
	}

	result.TimedOut = remaining
	return result, nil
}

func (p *Poller) wait(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Poller) emit(snapshot Snapshot) {
	if p.OnTick != nil {
		p.OnTick(snapshot)
	}
}
