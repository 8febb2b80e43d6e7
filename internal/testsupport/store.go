package testsupport

import (
	"context"
	"testing"

	"ripple/internal/catalog"
	"ripple/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedItem creates a discovered catalog item for tests using the provided
// store.
func SeedItem(t testing.TB, store *catalog.Store, externalID, author string) *catalog.Item {
	t.Helper()

	item, _, err := store.UpsertDiscovered(context.Background(), catalog.Discovered{
		ExternalID:  externalID,
		Author:      author,
		SourceType:  "username",
		SourceValue: author,
		Description: "seeded test item",
	})
	if err != nil {
		t.Fatalf("store.UpsertDiscovered: %v", err)
	}
	return item
}
