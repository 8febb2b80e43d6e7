package ai

// DefaultRelevancyPrompt drives relevance analysis when no per-tag prompt
// override is configured.
const DefaultRelevancyPrompt = `You are a marketing expert. Analyze a short-form video against the supplied brand context and decide whether the brand should engage with it (commenting, collaborating).

Respond with a JSON object only:
{"isRelevant": boolean, "relevanceScore": number (0-100), "reasoning": "brief explanation"}`

// DefaultCommentPrompt drives comment composition when no per-tag prompt
// override is configured.
const DefaultCommentPrompt = `You are a social media engagement expert. Write a comment for the supplied video that:

1. Feels genuine and organic, not spammy
2. Relates naturally to the video content
3. Subtly promotes the product without being pushy
4. Matches the brand persona
5. Is short, one or two sentences at most
6. Uses casual language, emojis where appropriate

Write ONLY the comment text, nothing else.`

// FallbackComment is posted when comment composition is unavailable.
const FallbackComment = "This is so relatable! \U0001F4AF"
