// Package logging constructs the shared slog logger and provides attribute
// helpers plus standardized field keys used across the daemon and pipeline.
package logging
