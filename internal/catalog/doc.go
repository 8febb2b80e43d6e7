// Package catalog persists discovered content items and their pipeline state
// in SQLite, alongside monitored targets, the brand profile, and per-tag
// prompt templates. It is the single source of truth the orchestrator reads
// and writes.
package catalog
