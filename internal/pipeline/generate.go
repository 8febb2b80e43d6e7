package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// GenerateAction composes an engagement comment for every relevant item.
// Composition never fails an item: the composer degrades to a generic
// fallback comment when the model is unavailable.
type GenerateAction struct {
	store    *catalog.Store
	composer CommentComposer
	tag      string
	logger   *slog.Logger

	brand   catalog.BrandProfile
	prompts catalog.PromptSet
}

// NewGenerateAction constructs the generation stage for one workflow tag.
func NewGenerateAction(store *catalog.Store, composer CommentComposer, tag string, logger *slog.Logger) *GenerateAction {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GenerateAction{store: store, composer: composer, tag: tag, logger: logger}
}

func (a *GenerateAction) Name() string { return "generate" }

func (a *GenerateAction) ProcessingStatus() catalog.Status { return catalog.StatusGenerating }

func (a *GenerateAction) Eligible(item *catalog.Item) bool {
	return item.Status == catalog.StatusScored
}

func (a *GenerateAction) Prepare(ctx context.Context) error {
	brand, err := a.store.BrandProfile(ctx)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile", "", err)
	}
	if !brand.Configured() {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile",
			"brand profile needs a product name and description before generation", nil)
	}
	prompts, err := a.store.Prompts(ctx, a.tag)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load prompts", "", err)
	}
	a.brand = brand
	a.prompts = prompts
	return nil
}

func (a *GenerateAction) Execute(ctx context.Context, item *catalog.Item) error {
	if item.Relevance == nil || !item.Relevance.Relevant {
		return services.Wrap(services.ErrValidation, a.Name(), "compose comment",
			"item is not marked relevant", nil)
	}

	comment, fallback := a.composer.Compose(ctx, item.Description, a.brand.Context(), a.brand.Persona, a.prompts.CommentText)
	if fallback {
		a.logger.Debug("generated fallback comment",
			logging.Int64(logging.FieldItemID, item.ID))
	}

	item.Comment = comment
	item.Status = catalog.StatusGenerated
	return nil
}
