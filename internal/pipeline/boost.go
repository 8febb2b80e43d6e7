package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// BoostAction orders engagement likes for every confirmed comment. At most
// one order exists per item; items that already carry an order are not
// eligible, so re-running the stage never places a duplicate order.
type BoostAction struct {
	store    *catalog.Store
	comments CommentService
	boosts   BoostService
	logger   *slog.Logger

	username string
}

// NewBoostAction constructs the boost stage.
func NewBoostAction(store *catalog.Store, comments CommentService, boosts BoostService, logger *slog.Logger) *BoostAction {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BoostAction{store: store, comments: comments, boosts: boosts, logger: logger}
}

func (a *BoostAction) Name() string { return "boost" }

func (a *BoostAction) ProcessingStatus() catalog.Status { return catalog.StatusBoosting }

func (a *BoostAction) Eligible(item *catalog.Item) bool {
	return item.Status == catalog.StatusConfirmed &&
		item.Boost == nil &&
		item.Submission != nil &&
		item.Submission.ResultURL != ""
}

// Prepare resolves the posting account's public username, which the boost
// panel needs to locate the comment under the post.
func (a *BoostAction) Prepare(ctx context.Context) error {
	brand, err := a.store.BrandProfile(ctx)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile", "", err)
	}
	if brand.UGCAccountID == "" {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile",
			"no posting account configured on the brand profile", nil)
	}

	accounts, err := a.comments.Accounts(ctx)
	if err != nil {
		return services.Wrap(services.ErrExternalService, a.Name(), "list accounts", "", err)
	}
	for _, account := range accounts {
		if account.ID == brand.UGCAccountID && account.Username != "" {
			a.username = account.Username
			return nil
		}
	}
	return services.Wrap(services.ErrConfiguration, a.Name(), "list accounts",
		"posting account "+brand.UGCAccountID+" has no resolvable username", nil)
}

func (a *BoostAction) Execute(ctx context.Context, item *catalog.Item) error {
	if item.Boost != nil {
		return services.Wrap(services.ErrValidation, a.Name(), "order likes",
			"boost order "+item.Boost.OrderRef+" already exists for this item", nil)
	}
	if item.Submission == nil || item.Submission.ResultURL == "" {
		return services.Wrap(services.ErrValidation, a.Name(), "order likes",
			"item has no confirmed comment url", nil)
	}

	ref, err := a.boosts.OrderCommentLikes(ctx, item.Submission.ResultURL, a.username, a.boosts.Quantity())
	if err != nil {
		return services.Wrap(services.ErrExternalService, a.Name(), "order likes", "", err)
	}

	item.Boost = &catalog.Boost{
		OrderRef: ref,
		Status:   catalog.BoostOrdered,
	}
	item.Status = catalog.StatusBoosted
	a.logger.Info("boost ordered",
		logging.String(logging.FieldEventType, "boost"),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("order_ref", ref))
	return nil
}
