package api

import (
	"ripple/internal/catalog"
	"ripple/internal/pipeline"
)

// FromItem converts a catalog record to its API representation.
func FromItem(item *catalog.Item) Item {
	if item == nil {
		return Item{}
	}

	dto := Item{
		ID:          item.ID,
		ExternalID:  item.ExternalID,
		Author:      item.Author,
		SourceType:  item.SourceType,
		SourceValue: item.SourceValue,
		Tag:         item.Tag,
		Description: item.Description,
		PostURL:     item.PostURL(),
		Status:      string(item.Status),
		Stats: ItemStats{
			Diggs:    item.Stats.Diggs,
			Comments: item.Stats.Comments,
			Plays:    item.Stats.Plays,
			Shares:   item.Stats.Shares,
		},
		Comment:      item.Comment,
		ErrorMessage: item.ErrorMessage,
	}
	if item.Relevance != nil {
		dto.Relevance = &Relevance{
			Relevant: item.Relevance.Relevant,
			Score:    item.Relevance.Score,
			Reason:   item.Relevance.Reason,
		}
	}
	if item.Submission != nil {
		dto.Submission = &Submission{
			ExternalRef: item.Submission.ExternalRef,
			Status:      string(item.Submission.Status),
			ResultURL:   item.Submission.ResultURL,
		}
	}
	if item.Boost != nil {
		dto.Boost = &Boost{
			OrderRef: item.Boost.OrderRef,
			Status:   string(item.Boost.Status),
		}
	}
	if !item.PostedAt.IsZero() {
		dto.PostedAt = item.PostedAt.UTC().Format(dateTimeFormat)
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromItems converts a slice of catalog records into API DTOs.
func FromItems(items []*catalog.Item) []Item {
	if len(items) == 0 {
		return nil
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromTarget converts a monitored target to its API representation.
func FromTarget(target *catalog.Target) Target {
	if target == nil {
		return Target{}
	}
	dto := Target{
		ID:    target.ID,
		Type:  string(target.Type),
		Value: target.Value,
		Tag:   target.Tag,
	}
	if !target.CreatedAt.IsZero() {
		dto.CreatedAt = target.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromTargets converts a slice of monitored targets into API DTOs.
func FromTargets(targets []*catalog.Target) []Target {
	if len(targets) == 0 {
		return nil
	}
	out := make([]Target, 0, len(targets))
	for _, target := range targets {
		out = append(out, FromTarget(target))
	}
	return out
}

// FromBrandProfile converts the brand profile to its API representation.
func FromBrandProfile(profile catalog.BrandProfile) BrandProfile {
	return BrandProfile{
		ProductName:        profile.ProductName,
		ProductDescription: profile.ProductDescription,
		TargetAudience:     profile.TargetAudience,
		Persona:            profile.Persona,
		UGCAccountID:       profile.UGCAccountID,
	}
}

// ToBrandProfile converts an API brand profile back into the catalog model.
func ToBrandProfile(profile BrandProfile) catalog.BrandProfile {
	return catalog.BrandProfile{
		ProductName:        profile.ProductName,
		ProductDescription: profile.ProductDescription,
		TargetAudience:     profile.TargetAudience,
		Persona:            profile.Persona,
		UGCAccountID:       profile.UGCAccountID,
	}
}

// FromPromptSet converts a prompt set to its API representation.
func FromPromptSet(set catalog.PromptSet) PromptSet {
	return PromptSet{
		Tag:           set.Tag,
		RelevancyText: set.RelevancyText,
		CommentText:   set.CommentText,
	}
}

// FromRun snapshots a pipeline run into its API representation. The run log
// is included only when includeLog is set; listings stay lightweight.
func FromRun(run *pipeline.Run, includeLog bool) Run {
	if run == nil {
		return Run{}
	}
	summary := run.Summary()
	dto := Run{
		ID:    run.ID(),
		Tag:   run.Tag(),
		State: string(run.State()),
		Stage: run.Stage(),
		Summary: RunSummary{
			Discovered: summary.Discovered,
			Scored:     summary.Scored,
			Generated:  summary.Generated,
			Submitted:  summary.Submitted,
			Confirmed:  summary.Confirmed,
			Boosted:    summary.Boosted,
			Failed:     summary.Failed,
			TimedOut:   summary.TimedOut,
		},
	}
	if !run.StartedAt().IsZero() {
		dto.StartedAt = run.StartedAt().UTC().Format(dateTimeFormat)
	}
	if err := run.Err(); err != nil {
		dto.Error = err.Error()
	}
	if includeLog {
		dto.Log = run.Log()
	}
	return dto
}

// FromRuns converts a slice of runs into API DTOs without logs.
func FromRuns(runs []*pipeline.Run) []Run {
	if len(runs) == 0 {
		return nil
	}
	out := make([]Run, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run, false))
	}
	return out
}
