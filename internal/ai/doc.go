// Package ai wraps the chat-completions endpoint used for relevance
// analysis and comment composition. The client retries transient HTTP
// failures with capped exponential backoff; the analyzer and composer
// fall back to deterministic local behavior when the model is
// unreachable so a batch never fails on AI availability.
package ai
