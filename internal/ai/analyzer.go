package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Analysis is the outcome of one relevance pass over a video.
type Analysis struct {
	Relevant bool
	Score    int
	Reason   string
	// Fallback is true when the heuristic produced the result instead of
	// the model.
	Fallback bool
}

// Analyzer scores video content against the brand context.
type Analyzer struct {
	client *Client
}

// NewAnalyzer constructs an analyzer backed by the given client.
func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

type relevancePayload struct {
	IsRelevant     bool    `json:"isRelevant"`
	RelevanceScore float64 `json:"relevanceScore"`
	Reasoning      string  `json:"reasoning"`
}

// Analyze scores one video description against the brand context. The
// customPrompt replaces the default system prompt when non-empty. Model
// failures degrade to the deterministic keyword heuristic rather than
// returning an error, so scoring never fails a batch on AI availability.
func (a *Analyzer) Analyze(ctx context.Context, description, brandContext, customPrompt string) Analysis {
	if a.client == nil || !a.client.Configured() {
		return HeuristicAnalysis(description, brandContext)
	}

	systemPrompt := DefaultRelevancyPrompt
	if strings.TrimSpace(customPrompt) != "" {
		systemPrompt = customPrompt
	}
	userPrompt := fmt.Sprintf("BRAND CONTEXT:\n%s\n\nVIDEO DESCRIPTION:\n%q", brandContext, description)

	content, err := a.client.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return HeuristicAnalysis(description, brandContext)
	}
	var payload relevancePayload
	if err := DecodeModelJSON(content, &payload); err != nil {
		return HeuristicAnalysis(description, brandContext)
	}

	score := int(payload.RelevanceScore)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Analysis{
		Relevant: payload.IsRelevant,
		Score:    score,
		Reason:   strings.TrimSpace(payload.Reasoning),
	}
}

var keywordPattern = regexp.MustCompile(`\b\w{4,}\b`)

// HeuristicAnalysis scores by keyword overlap between the description and
// the brand context. Each matched brand keyword is worth 25 points, capped
// at 100. It is deterministic and needs no network access.
func HeuristicAnalysis(description, brandContext string) Analysis {
	descLower := strings.ToLower(description)
	matched := 0
	seen := make(map[string]struct{})
	for _, keyword := range keywordPattern.FindAllString(strings.ToLower(brandContext), -1) {
		if _, dup := seen[keyword]; dup {
			continue
		}
		seen[keyword] = struct{}{}
		if strings.Contains(descLower, keyword) {
			matched++
		}
	}

	score := matched * 25
	if score > 100 {
		score = 100
	}
	reason := fmt.Sprintf("heuristic analysis: found %d keyword match(es)", matched)
	if matched == 0 {
		reason = "heuristic analysis: no keyword matches found"
	}
	return Analysis{
		Relevant: matched > 0,
		Score:    score,
		Reason:   reason,
		Fallback: true,
	}
}
