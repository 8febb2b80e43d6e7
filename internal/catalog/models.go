package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a catalog item. It is an explicit stage
// marker computed once per transition, never inferred from nullable fields.
type Status string

const (
	StatusDiscovered Status = "discovered"
	StatusScoring    Status = "scoring"
	StatusScored     Status = "scored"
	StatusSkipped    Status = "skipped"
	StatusGenerating Status = "generating"
	StatusGenerated  Status = "generated"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
	StatusConfirmed  Status = "confirmed"
	StatusBoosting   Status = "boosting"
	StatusBoosted    Status = "boosted"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusDiscovered,
	StatusScoring,
	StatusScored,
	StatusSkipped,
	StatusGenerating,
	StatusGenerated,
	StatusSubmitting,
	StatusSubmitted,
	StatusConfirmed,
	StatusBoosting,
	StatusBoosted,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var terminalStatuses = map[Status]struct{}{
	StatusSkipped:   {},
	StatusCompleted: {},
	StatusFailed:    {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status admits no further pipeline work.
func (s Status) IsTerminal() bool {
	_, ok := terminalStatuses[s]
	return ok
}

// SubmissionStatus is the remote lifecycle of an asynchronous comment
// submission. Transitions are monotonic: pending -> running -> completed or
// failed; completed and failed are terminal.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionRunning   SubmissionStatus = "running"
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionFailed    SubmissionStatus = "failed"
)

var submissionRank = map[SubmissionStatus]int{
	SubmissionPending:   0,
	SubmissionRunning:   1,
	SubmissionCompleted: 2,
	SubmissionFailed:    2,
}

// Resolved reports whether the submission reached a terminal remote state.
func (s SubmissionStatus) Resolved() bool {
	return s == SubmissionCompleted || s == SubmissionFailed
}

// ParseSubmissionStatus normalizes a remote status string.
func ParseSubmissionStatus(value string) (SubmissionStatus, bool) {
	normalized := SubmissionStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := submissionRank[normalized]
	return normalized, ok
}

// Relevance captures one analysis pass. Re-analysis overwrites it; no history
// is kept.
type Relevance struct {
	Relevant bool
	Score    int
	Reason   string
}

// Submission tracks the asynchronous remote comment. ExternalRef is immutable
// once assigned.
type Submission struct {
	ExternalRef string
	Status      SubmissionStatus
	ResultURL   string
}

// Advance applies a forward-only status transition. Regressions are rejected
// so a stale remote read can never undo a resolved submission.
func (s *Submission) Advance(next SubmissionStatus, resultURL string) error {
	if s == nil {
		return fmt.Errorf("submission is nil")
	}
	currentRank, ok := submissionRank[s.Status]
	if !ok {
		currentRank = 0
	}
	nextRank, ok := submissionRank[next]
	if !ok {
		return fmt.Errorf("unknown submission status %q", next)
	}
	if s.Status.Resolved() && next != s.Status {
		return fmt.Errorf("submission %s is terminal, cannot move to %s", s.Status, next)
	}
	if nextRank < currentRank {
		return fmt.Errorf("submission status cannot regress from %s to %s", s.Status, next)
	}
	s.Status = next
	if resultURL != "" {
		s.ResultURL = resultURL
	}
	return nil
}

// BoostStatus is the local view of an engagement boost order.
type BoostStatus string

const (
	BoostOrdered    BoostStatus = "ordered"
	BoostCompleted  BoostStatus = "completed"
	BoostUnverified BoostStatus = "unverified"
	BoostFailed     BoostStatus = "failed"
)

// Boost records a placed boost order. At most one order exists per item.
type Boost struct {
	OrderRef string
	Status   BoostStatus
}

// Stats holds volatile engagement counters refreshed on re-discovery.
type Stats struct {
	Diggs    int64
	Comments int64
	Plays    int64
	Shares   int64
}

// Item represents one discovered content unit persisted in SQLite.
type Item struct {
	ID          int64
	ExternalID  string
	Author      string
	SourceType  string
	SourceValue string
	Tag         string
	Description string
	CoverURL    string
	PlayURL     string
	Stats       Stats
	PostedAt    time.Time

	Status       Status
	Relevance    *Relevance
	Comment      string
	Submission   *Submission
	Boost        *Boost
	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostURL builds the canonical platform URL for this item.
func (i *Item) PostURL() string {
	return fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", i.Author, i.ExternalID)
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// Target is one monitored discovery source (a profile handle or hashtag).
type Target struct {
	ID        int64
	Type      TargetType
	Value     string
	Tag       string
	CreatedAt time.Time
}

// TargetType distinguishes profile targets from hashtag targets.
type TargetType string

const (
	TargetUsername TargetType = "username"
	TargetHashtag  TargetType = "hashtag"
)

// ParseTargetType normalizes a target type string.
func ParseTargetType(value string) (TargetType, bool) {
	switch TargetType(strings.ToLower(strings.TrimSpace(value))) {
	case TargetUsername:
		return TargetUsername, true
	case TargetHashtag:
		return TargetHashtag, true
	default:
		return "", false
	}
}

// BrandProfile is the shared brand context consumed by scoring and generation.
// A single profile exists per installation.
type BrandProfile struct {
	ProductName        string
	ProductDescription string
	TargetAudience     string
	Persona            string
	UGCAccountID       string
	UpdatedAt          time.Time
}

// Context renders the profile as prompt context for the LLM.
func (p BrandProfile) Context() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.ProductName)
	fmt.Fprintf(&b, "Description: %s\n", p.ProductDescription)
	if p.TargetAudience != "" {
		fmt.Fprintf(&b, "Target Audience: %s\n", p.TargetAudience)
	}
	if p.Persona != "" {
		fmt.Fprintf(&b, "Persona: %s\n", p.Persona)
	}
	return b.String()
}

// Configured reports whether the profile holds enough context to run the
// scoring and generation stages.
func (p BrandProfile) Configured() bool {
	return strings.TrimSpace(p.ProductName) != "" && strings.TrimSpace(p.ProductDescription) != ""
}

// PromptSet holds optional per-tag prompt overrides for scoring and
// generation. Empty fields fall back to built-in defaults.
type PromptSet struct {
	Tag           string
	RelevancyText string
	CommentText   string
	UpdatedAt     time.Time
}
