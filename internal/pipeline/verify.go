package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// SubmissionVerifier resolves pending submissions against the remote
// service. Transitions are forward-only; a stale remote read can never
// undo a resolved submission.
type SubmissionVerifier struct {
	comments CommentService
	logger   *slog.Logger
}

// NewSubmissionVerifier constructs a verifier over the comment service.
func NewSubmissionVerifier(comments CommentService, logger *slog.Logger) *SubmissionVerifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SubmissionVerifier{comments: comments, logger: logger}
}

// Check queries all pending submissions in one batched call and returns
// the items that reached a terminal remote state. Completed submissions
// advance the item to confirmed with the comment url recorded; failed
// submissions mark the item failed.
func (v *SubmissionVerifier) Check(ctx context.Context, pending []*catalog.Item) ([]*catalog.Item, error) {
	refs := make([]string, 0, len(pending))
	for _, item := range pending {
		if item.Submission != nil && item.Submission.ExternalRef != "" {
			refs = append(refs, item.Submission.ExternalRef)
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}

	remote, err := v.comments.Comments(ctx, refs)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "verify-submission", "check status", "", err)
	}
	byRef := make(map[string]int, len(remote))
	for i := range remote {
		byRef[remote[i].ID] = i
	}

	var resolved []*catalog.Item
	for _, item := range pending {
		if item.Submission == nil {
			continue
		}
		idx, ok := byRef[item.Submission.ExternalRef]
		if !ok {
			continue
		}
		comment := remote[idx]

		status, known := catalog.ParseSubmissionStatus(comment.Status)
		if !known {
			v.logger.Warn("unknown remote submission status",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.String("status", comment.Status))
			continue
		}
		if !status.Resolved() {
			// Forward-only progress (pending -> running) is tracked in
			// memory; only resolution is persisted.
			if err := item.Submission.Advance(status, ""); err != nil {
				v.logger.Warn("rejected submission transition",
					logging.Int64(logging.FieldItemID, item.ID),
					logging.Error(err))
			}
			continue
		}

		if err := item.Submission.Advance(status, comment.CommentURL); err != nil {
			v.logger.Warn("rejected submission transition",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.Error(err))
			continue
		}
		if status == catalog.SubmissionCompleted {
			item.Status = catalog.StatusConfirmed
			item.ErrorMessage = ""
		} else {
			message := comment.Error
			if message == "" {
				message = "remote comment submission failed"
			}
			item.SetFailed(message)
		}
		resolved = append(resolved, item)
	}
	return resolved, nil
}

// BoostVerifier resolves placed boost orders against the panel. Order
// checks are per-order calls, so one order's failure only skips that item
// for the tick.
type BoostVerifier struct {
	boosts BoostService
	logger *slog.Logger
}

// NewBoostVerifier constructs a verifier over the boost service.
func NewBoostVerifier(boosts BoostService, logger *slog.Logger) *BoostVerifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BoostVerifier{boosts: boosts, logger: logger}
}

// Check queries every pending boost order and returns the items whose
// orders reached a terminal panel state. The comment itself is live either
// way, so both outcomes complete the item; a canceled or refunded order is
// recorded on the boost status.
func (v *BoostVerifier) Check(ctx context.Context, pending []*catalog.Item) ([]*catalog.Item, error) {
	var resolved []*catalog.Item
	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}
		if item.Boost == nil || item.Boost.OrderRef == "" {
			continue
		}

		status, err := v.boosts.CheckOrder(ctx, item.Boost.OrderRef)
		if err != nil {
			v.logger.Warn("boost order check failed",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.String("order_ref", item.Boost.OrderRef),
				logging.Error(err))
			continue
		}

		switch {
		case status.Completed():
			item.Boost.Status = catalog.BoostCompleted
		case status.Failed():
			v.logger.Warn("boost order not delivered",
				logging.Int64(logging.FieldItemID, item.ID),
				logging.String("order_status", status.Status))
			item.Boost.Status = catalog.BoostFailed
		default:
			continue
		}
		item.Status = catalog.StatusCompleted
		resolved = append(resolved, item)
	}
	return resolved, nil
}
