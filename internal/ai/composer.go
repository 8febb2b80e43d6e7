package ai

import (
	"context"
	"fmt"
	"strings"
)

// Composer writes engagement comments for relevant videos.
type Composer struct {
	client *Client
}

// NewComposer constructs a composer backed by the given client.
func NewComposer(client *Client) *Composer {
	return &Composer{client: client}
}

// Compose writes one comment for the video. The customPrompt replaces the
// default system prompt when non-empty. When the model is unavailable or
// fails, a generic fallback comment is returned along with fallback=true.
func (c *Composer) Compose(ctx context.Context, description, brandContext, persona, customPrompt string) (comment string, fallback bool) {
	if c.client == nil || !c.client.Configured() {
		return FallbackComment, true
	}

	systemPrompt := DefaultCommentPrompt
	if strings.TrimSpace(customPrompt) != "" {
		systemPrompt = customPrompt
	}
	userPrompt := fmt.Sprintf(
		"VIDEO DESCRIPTION:\n%q\n\nBRAND TO PROMOTE:\n%s\nPersona: %s",
		description, brandContext, persona,
	)

	content, err := c.client.CompleteText(ctx, systemPrompt, userPrompt)
	if err != nil {
		return FallbackComment, true
	}
	content = strings.TrimSpace(strings.Trim(strings.TrimSpace(content), `"`))
	if content == "" {
		return FallbackComment, true
	}
	return content, false
}
