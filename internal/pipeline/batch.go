package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// Outcome records what happened to one item during a batch.
type Outcome struct {
	ItemID     int64
	ExternalID string
	Err        error
}

// OK reports whether the item's stage call succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// BatchResult aggregates the per-item outcomes of one stage batch.
type BatchResult struct {
	Action   string
	Outcomes []Outcome
}

// Succeeded counts items whose outcome was persisted.
func (r BatchResult) Succeeded() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.OK() {
			count++
		}
	}
	return count
}

// Failed counts items whose stage call failed.
func (r BatchResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Runner executes one stage action over a batch of items.
type Runner struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewRunner constructs a batch runner over the given store.
func NewRunner(store *catalog.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

// RunBatch executes the action over every eligible item in order. One
// item's failure never aborts the batch: the failure is recorded as an
// outcome and nothing is persisted for that item. A Prepare error aborts
// before any item is touched and is returned as the single top-level
// error. Cancellation is observed between items.
func (r *Runner) RunBatch(ctx context.Context, action Action, items []*catalog.Item) (BatchResult, error) {
	result := BatchResult{Action: action.Name()}

	if err := action.Prepare(ctx); err != nil {
		r.logger.Warn("stage preparation failed",
			logging.String(logging.FieldStage, action.Name()),
			logging.Error(err))
		return result, err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if item == nil || !action.Eligible(item) {
			continue
		}

		itemCtx := services.WithItemID(services.WithStage(ctx, action.Name()), item.ID)
		itemLogger := r.logger.With(
			logging.String(logging.FieldStage, action.Name()),
			logging.Int64(logging.FieldItemID, item.ID),
		)

		item.Status = action.ProcessingStatus()
		if err := action.Execute(itemCtx, item); err != nil {
			itemLogger.Warn("stage action failed", logging.Error(err))
			result.Outcomes = append(result.Outcomes, Outcome{
				ItemID:     item.ID,
				ExternalID: item.ExternalID,
				Err:        err,
			})
			continue
		}

		if err := r.store.Update(itemCtx, item); err != nil {
			itemLogger.Error("failed to persist stage outcome", logging.Error(err))
			result.Outcomes = append(result.Outcomes, Outcome{
				ItemID:     item.ID,
				ExternalID: item.ExternalID,
				Err:        services.Wrap(services.ErrExternalService, action.Name(), "persist outcome", "", err),
			})
			continue
		}

		itemLogger.Info("stage action completed",
			logging.String(logging.FieldEventType, "stage_item_done"),
			logging.String("status", string(item.Status)))
		result.Outcomes = append(result.Outcomes, Outcome{
			ItemID:     item.ID,
			ExternalID: item.ExternalID,
		})
	}
	return result, nil
}
