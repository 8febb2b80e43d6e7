package testsupport

import (
	"path/filepath"
	"testing"

	"ripple/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Scrape.APIKey = "test"
	cfg.LLM.APIKey = "test"
	cfg.UGC.APIKey = "test"
	cfg.SMM.APIKey = "test"
	cfg.SMM.ServiceID = "1"
	cfg.Pipeline.ConfirmInterval = 0
	cfg.Pipeline.ConfirmMaxAttempts = 3

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithConfirmBudget overrides the submission polling cadence and budget.
func WithConfirmBudget(interval, maxAttempts int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.ConfirmInterval = interval
		cfg.Pipeline.ConfirmMaxAttempts = maxAttempts
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
