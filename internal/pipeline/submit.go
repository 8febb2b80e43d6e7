package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// SubmitAction queues generated comments with the submission service. The
// external reference assigned on creation is immutable; an item that
// already carries a submission is rejected, never re-submitted, so a
// duplicate remote comment can never be created.
type SubmitAction struct {
	store    *catalog.Store
	comments CommentService
	logger   *slog.Logger

	accountID string
}

// NewSubmitAction constructs the submission stage.
func NewSubmitAction(store *catalog.Store, comments CommentService, logger *slog.Logger) *SubmitAction {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SubmitAction{store: store, comments: comments, logger: logger}
}

func (a *SubmitAction) Name() string { return "submit" }

func (a *SubmitAction) ProcessingStatus() catalog.Status { return catalog.StatusSubmitting }

func (a *SubmitAction) Eligible(item *catalog.Item) bool {
	return item.Status == catalog.StatusGenerated && item.Submission == nil
}

// Prepare resolves the posting account from the brand profile.
func (a *SubmitAction) Prepare(ctx context.Context) error {
	brand, err := a.store.BrandProfile(ctx)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile", "", err)
	}
	if brand.UGCAccountID == "" {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile",
			"no posting account configured on the brand profile", nil)
	}
	a.accountID = brand.UGCAccountID
	return nil
}

func (a *SubmitAction) Execute(ctx context.Context, item *catalog.Item) error {
	if item.Submission != nil {
		return services.Wrap(services.ErrValidation, a.Name(), "create comment",
			"submission "+item.Submission.ExternalRef+" already exists for this item", nil)
	}
	if item.Comment == "" {
		return services.Wrap(services.ErrValidation, a.Name(), "create comment",
			"item has no generated comment", nil)
	}

	ref, err := a.comments.CreateComment(ctx, a.accountID, item.PostURL(), item.Comment)
	if err != nil {
		return services.Wrap(services.ErrExternalService, a.Name(), "create comment", "", err)
	}

	item.Submission = &catalog.Submission{
		ExternalRef: ref,
		Status:      catalog.SubmissionPending,
	}
	item.Status = catalog.StatusSubmitted
	a.logger.Info("comment queued",
		logging.String(logging.FieldEventType, "submission"),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("external_ref", ref))
	return nil
}
