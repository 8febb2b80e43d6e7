// Package ipc implements JSON-RPC over a Unix domain socket between the
// ripple CLI and the rippled daemon. The wire types reuse the DTOs from
// internal/api so IPC and HTTP consumers see identical payloads.
package ipc
