package main

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/testsupport"
)

func TestItemsListShowRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"items", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items list empty: %v", err)
	}
	requireContains(t, out, "Catalog is empty")

	item := testsupport.SeedItem(t, env.store, "7300000000000000001", "creator")
	failed := testsupport.SeedItem(t, env.store, "7300000000000000002", "other")
	failed.SetFailed("scrape timeout")
	if err := env.store.Update(context.Background(), failed); err != nil {
		t.Fatalf("update failed item: %v", err)
	}

	out, _, err = runCLI(t, []string{"items", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	requireContains(t, out, "creator")
	requireContains(t, out, "other")

	out, _, err = runCLI(t, []string{"items", "list", "--status", "failed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items list --status: %v", err)
	}
	requireContains(t, out, "other")
	if strings.Contains(out, "creator") {
		t.Fatalf("expected only failed items, got %q", out)
	}

	_, _, err = runCLI(t, []string{"items", "list", "--status", "zombie"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected unknown status filter to fail")
	}

	out, _, err = runCLI(t, []string{"items", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items show: %v", err)
	}
	requireContains(t, out, "@"+item.Author)
	requireContains(t, out, item.PostURL())

	_, _, err = runCLI(t, []string{"items", "show", "bogus"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected non-numeric id to fail")
	}

	out, _, err = runCLI(t, []string{"items", "remove", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items remove: %v", err)
	}
	requireContains(t, out, "Item 2 removed")

	out, _, err = runCLI(t, []string{"items", "remove", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("items remove missing: %v", err)
	}
	requireContains(t, out, "not found")
}

func TestItemsSubmitRejectsIneligibleItem(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedItem(t, env.store, "7300000000000000003", "creator")

	_, _, err := runCLI(t, []string{"items", "submit", "1"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected submit of a discovered item to fail")
	}
}

func TestItemsBoostRejectsIneligibleItem(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedItem(t, env.store, "7300000000000000004", "creator")

	_, _, err := runCLI(t, []string{"items", "boost", "1"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected boost of a discovered item to fail")
	}
}

func TestRunCommandsWithoutRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("run list: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	_, _, err = runCLI(t, []string{"run", "show", "missing"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected run show for unknown id to fail")
	}

	out, _, err = runCLI(t, []string{"run", "stop", "missing"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("run stop missing: %v", err)
	}
	requireContains(t, out, "not found")
}

