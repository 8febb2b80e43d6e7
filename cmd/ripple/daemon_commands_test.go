package main

import (
	"testing"

	"ripple/internal/testsupport"
)

func TestDaemonStartStatusStop(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	requireContains(t, out, "Daemon started")

	out, _, err = runCLI(t, []string{"start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	requireContains(t, out, "already")

	out, _, err = runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "running")
	requireContains(t, out, "Catalog is empty")

	out, _, err = runCLI(t, []string{"stop"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon stopped")

	out, _, err = runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status after stop: %v", err)
	}
	requireContains(t, out, "stopped")
}

func TestStatusShowsCatalogCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedItem(t, env.store, "ext-1", "creator")

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "discovered")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, out, "\"running\"")
	requireContains(t, out, "\"catalog_db_path\"")
}

func TestCommandsFailWithoutDaemonSocket(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Close()
	env.cancel()

	_, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected status to fail once the socket is gone")
	}
	requireContains(t, err.Error(), "connect to daemon")
}
