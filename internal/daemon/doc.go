// Package daemon coordinates the long-running Ripple process.
//
// It wires configuration, the catalog store, and the pipeline orchestrator
// into a single lifecycle with flock-based locking to prevent multiple
// instances. The daemon exposes catalog and run maintenance helpers for the
// IPC layer and serves a read-mostly HTTP API for external consumers.
//
// Keep coordination logic here: pipeline stages live in internal/pipeline
// while the daemon focuses on startup, shutdown, and request fan-out.
package daemon
