package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"ripple/internal/catalog"
	"ripple/internal/pipeline"
	"ripple/internal/testsupport"
)

func TestPollerTerminatesAtAttemptBudget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	pending := []*catalog.Item{
		testsupport.SeedItem(t, store, "ext-1", "a"),
		testsupport.SeedItem(t, store, "ext-2", "b"),
	}

	var ticks []pipeline.Snapshot
	poller := &pipeline.Poller{
		Store:       store,
		Interval:    0,
		MaxAttempts: 3,
		OnTick:      func(s pipeline.Snapshot) { ticks = append(ticks, s) },
	}

	checks := 0
	result, err := poller.Run(context.Background(), pending, func(ctx context.Context, items []*catalog.Item) ([]*catalog.Item, error) {
		checks++
		return nil, nil // never resolves
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if checks != 3 || result.Attempts != 3 {
		t.Fatalf("expected exactly 3 ticks, got checks=%d attempts=%d", checks, result.Attempts)
	}
	if len(ticks) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(ticks))
	}
	if len(result.Resolved) != 0 || len(result.TimedOut) != 2 {
		t.Fatalf("expected all items timed out, got %d resolved %d timed out", len(result.Resolved), len(result.TimedOut))
	}
	if last := ticks[len(ticks)-1]; last.Attempt != 3 || last.Pending != 2 {
		t.Fatalf("unexpected final snapshot: %+v", last)
	}
}

func TestPollerStopsWhenPendingSetEmpties(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first := testsupport.SeedItem(t, store, "ext-1", "a")
	second := testsupport.SeedItem(t, store, "ext-2", "b")

	poller := &pipeline.Poller{Store: store, Interval: 0, MaxAttempts: 10}

	tick := 0
	result, err := poller.Run(context.Background(), []*catalog.Item{first, second},
		func(ctx context.Context, items []*catalog.Item) ([]*catalog.Item, error) {
			tick++
			switch tick {
			case 1:
				first.Status = catalog.StatusConfirmed
				return []*catalog.Item{first}, nil
			case 2:
				second.Status = catalog.StatusConfirmed
				return []*catalog.Item{second}, nil
			default:
				t.Fatal("poller queried after the pending set emptied")
				return nil, nil
			}
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Attempts != 2 || len(result.Resolved) != 2 || len(result.TimedOut) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Resolutions were persisted the moment they happened.
	assertStatus(t, itemByExternalID(t, store, "ext-1"), catalog.StatusConfirmed)
	assertStatus(t, itemByExternalID(t, store, "ext-2"), catalog.StatusConfirmed)
}

func TestPollerNeverRequeriesResolvedItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first := testsupport.SeedItem(t, store, "ext-1", "a")
	second := testsupport.SeedItem(t, store, "ext-2", "b")

	poller := &pipeline.Poller{Store: store, Interval: 0, MaxAttempts: 3}

	tick := 0
	result, err := poller.Run(context.Background(), []*catalog.Item{first, second},
		func(ctx context.Context, items []*catalog.Item) ([]*catalog.Item, error) {
			tick++
			if tick == 1 {
				first.Status = catalog.StatusConfirmed
				return []*catalog.Item{first}, nil
			}
			for _, item := range items {
				if item.ID == first.ID {
					t.Fatal("resolved item re-queried")
				}
			}
			return nil, nil
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Resolved) != 1 || len(result.TimedOut) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPollerToleratesCheckFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.SeedItem(t, store, "ext-1", "a")

	poller := &pipeline.Poller{Store: store, Interval: 0, MaxAttempts: 3}

	tick := 0
	result, err := poller.Run(context.Background(), []*catalog.Item{item},
		func(ctx context.Context, items []*catalog.Item) ([]*catalog.Item, error) {
			tick++
			if tick < 3 {
				return nil, errors.New("transient network failure")
			}
			item.Status = catalog.StatusConfirmed
			return []*catalog.Item{item}, nil
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Attempts != 3 || len(result.Resolved) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPollerObservesCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.SeedItem(t, store, "ext-1", "a")

	ctx, cancel := context.WithCancel(context.Background())
	poller := &pipeline.Poller{Store: store, Interval: 0, MaxAttempts: 100}

	tick := 0
	result, err := poller.Run(ctx, []*catalog.Item{item},
		func(ctx context.Context, items []*catalog.Item) ([]*catalog.Item, error) {
			tick++
			cancel()
			return nil, nil
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if tick != 1 {
		t.Fatalf("expected a single tick before the stop, got %d", tick)
	}
	if len(result.TimedOut) != 1 {
		t.Fatalf("pending item must be reported back on cancellation, got %+v", result)
	}
}
