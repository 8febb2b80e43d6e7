// Package api defines wire-format types and converters shared by the IPC
// and HTTP API layers. It translates catalog and pipeline models into
// transport-friendly DTOs so external consumers never couple to internal
// types.
//
// # Key Types
//
// Item: transport representation of a catalog entry with relevance,
// submission, and boost details.
//
// Run: snapshot of one pipeline run including stage counts and the tail of
// the run log.
//
// DaemonStatus: aggregated runtime information including catalog stats and
// active runs.
package api
