package pipeline

import (
	"context"

	"ripple/internal/ai"
	"ripple/internal/catalog"
	"ripple/internal/scrape"
	"ripple/internal/smm"
	"ripple/internal/ugc"
)

// Action is one pipeline stage over a single item. Prepare resolves shared
// context once per batch and may reject the whole stage with a
// configuration error; Execute performs the stage's single idempotent call
// and mutates the item in memory. Actions never write to the store; the
// batch runner persists successful outcomes.
type Action interface {
	Name() string
	// ProcessingStatus is the transient status the item carries while the
	// action runs.
	ProcessingStatus() catalog.Status
	// Eligible reports whether the item satisfies the stage precondition.
	// Items that already advanced past this stage are skipped, which is
	// what makes re-running a pipeline idempotent.
	Eligible(item *catalog.Item) bool
	Prepare(ctx context.Context) error
	Execute(ctx context.Context, item *catalog.Item) error
}

// ContentSource discovers recent videos for monitored targets.
type ContentSource interface {
	ProfileVideos(ctx context.Context, handle string) ([]scrape.Video, error)
	HashtagVideos(ctx context.Context, hashtag string) ([]scrape.Video, error)
}

// RelevanceScorer analyzes one video against the brand context. It always
// produces an analysis; model failures degrade to a local heuristic.
type RelevanceScorer interface {
	Analyze(ctx context.Context, description, brandContext, customPrompt string) ai.Analysis
}

// CommentComposer writes one engagement comment, falling back to a generic
// string when the model is unavailable.
type CommentComposer interface {
	Compose(ctx context.Context, description, brandContext, persona, customPrompt string) (comment string, fallback bool)
}

// CommentService is the asynchronous comment submission collaborator.
type CommentService interface {
	CreateComment(ctx context.Context, accountID, postURL, commentText string) (string, error)
	Comments(ctx context.Context, commentIDs []string) ([]ugc.Comment, error)
	Accounts(ctx context.Context) ([]ugc.Account, error)
}

// BoostService is the engagement boost collaborator.
type BoostService interface {
	OrderCommentLikes(ctx context.Context, link, username string, quantity int) (string, error)
	CheckOrder(ctx context.Context, orderRef string) (smm.OrderStatus, error)
	Quantity() int
}
