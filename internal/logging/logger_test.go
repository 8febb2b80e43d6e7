package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ripple/internal/config"
	"ripple/internal/logging"
	"ripple/internal/services"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "ripple.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	logger.Info("pipeline event",
		logging.String(logging.FieldComponent, "orchestrator"),
		logging.Int64(logging.FieldItemID, 7),
	)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "pipeline event") {
		t.Fatalf("expected message in log output, got %q", content)
	}
	if !strings.Contains(content, `"component":"orchestrator"`) {
		t.Fatalf("expected component field in log output, got %q", content)
	}
	if !strings.Contains(content, `"item_id":7`) {
		t.Fatalf("expected item id field in log output, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "yaml"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigAppendsDaemonLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("daemon line")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "ripple.log"))
	if err != nil {
		t.Fatalf("read daemon log: %v", err)
	}
	if !strings.Contains(string(data), "daemon line") {
		t.Fatalf("expected daemon line in log file, got %q", string(data))
	}
}

func TestWithContextAddsFields(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ctx.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 12)
	ctx = services.WithStage(ctx, "boost")
	ctx = services.WithRunID(ctx, "run-9")

	logging.WithContext(ctx, logger).Info("annotated")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	for _, fragment := range []string{`"item_id":12`, `"stage":"boost"`, `"run_id":"run-9"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in log output, got %q", fragment, content)
		}
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("expected nop logger to be disabled")
	}
}
