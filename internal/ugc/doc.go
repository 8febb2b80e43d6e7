// Package ugc wraps the asynchronous comment submission service. Creating
// a comment returns an external reference immediately; the remote worker
// posts it later, so callers poll comment status until it resolves.
package ugc
