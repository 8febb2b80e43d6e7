package pipeline

import (
	"context"
	"log/slog"

	"ripple/internal/catalog"
	"ripple/internal/logging"
	"ripple/internal/services"
)

// ScoreAction analyzes discovered items for brand relevance. Items judged
// not relevant leave the pipeline with status skipped. Scoring never fails
// an item: model failures degrade to the deterministic heuristic inside
// the scorer.
type ScoreAction struct {
	store  *catalog.Store
	scorer RelevanceScorer
	tag    string
	logger *slog.Logger

	brand   catalog.BrandProfile
	prompts catalog.PromptSet
}

// NewScoreAction constructs the scoring stage for one workflow tag.
func NewScoreAction(store *catalog.Store, scorer RelevanceScorer, tag string, logger *slog.Logger) *ScoreAction {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScoreAction{store: store, scorer: scorer, tag: tag, logger: logger}
}

func (a *ScoreAction) Name() string { return "score" }

func (a *ScoreAction) ProcessingStatus() catalog.Status { return catalog.StatusScoring }

func (a *ScoreAction) Eligible(item *catalog.Item) bool {
	return item.Status == catalog.StatusDiscovered
}

// Prepare loads the brand profile and per-tag prompts once for the batch.
func (a *ScoreAction) Prepare(ctx context.Context) error {
	brand, err := a.store.BrandProfile(ctx)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile", "", err)
	}
	if !brand.Configured() {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load brand profile",
			"brand profile needs a product name and description before scoring", nil)
	}
	prompts, err := a.store.Prompts(ctx, a.tag)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, a.Name(), "load prompts", "", err)
	}
	a.brand = brand
	a.prompts = prompts
	return nil
}

func (a *ScoreAction) Execute(ctx context.Context, item *catalog.Item) error {
	analysis := a.scorer.Analyze(ctx, item.Description, a.brand.Context(), a.prompts.RelevancyText)
	if analysis.Fallback {
		a.logger.Debug("scored with heuristic fallback",
			logging.Int64(logging.FieldItemID, item.ID))
	}

	item.Relevance = &catalog.Relevance{
		Relevant: analysis.Relevant,
		Score:    analysis.Score,
		Reason:   analysis.Reason,
	}
	if analysis.Relevant {
		item.Status = catalog.StatusScored
	} else {
		item.Status = catalog.StatusSkipped
	}
	return nil
}
