package historystore

import (
	"context"
	"fmt"
	"testing"

	domainPlan "github.com/AzielCF/az-planner/domains/plan"
)

// Both backends must behave identically: capped FIFO log, case-insensitive
// niche filter, oldest first.
func storesUnderTest(t *testing.T, maxRecords int) map[string]domainPlan.IHistoryStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(t.TempDir(), maxRecords)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]domainPlan.IHistoryStore{
		"memory": NewMemoryStore(maxRecords),
		"sqlite": sqlite,
	}
}

func TestHistoryStore_CapAndFIFOEviction(t *testing.T) {
	for name, store := range storesUnderTest(t, 5) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 1; i <= 8; i++ {
				if err := store.Record(ctx, "coffee", fmt.Sprintf("title %d", i)); err != nil {
					t.Fatalf("Record() error: %v", err)
				}
			}

			titles, err := store.Relevant(ctx, "coffee")
			if err != nil {
				t.Fatalf("Relevant() error: %v", err)
			}
			if len(titles) != 5 {
				t.Fatalf("got %d titles, want 5 (cap)", len(titles))
			}
			// Oldest evicted first: 1-3 gone, 4-8 remain in insertion order.
			for i, title := range titles {
				want := fmt.Sprintf("title %d", i+4)
				if title != want {
					t.Fatalf("titles[%d] = %q, want %q", i, title, want)
				}
			}
		})
	}
}

func TestHistoryStore_EvictionIsNotNicheAware(t *testing.T) {
	for name, store := range storesUnderTest(t, 3) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Record(ctx, "coffee", "old coffee title"); err != nil {
				t.Fatal(err)
			}
			for i := 1; i <= 3; i++ {
				if err := store.Record(ctx, "fitness", fmt.Sprintf("fitness %d", i)); err != nil {
					t.Fatal(err)
				}
			}

			// The coffee record was the oldest and the cap is global.
			titles, err := store.Relevant(ctx, "coffee")
			if err != nil {
				t.Fatal(err)
			}
			if len(titles) != 0 {
				t.Fatalf("expected the coffee record to be evicted, got %v", titles)
			}
		})
	}
}

func TestHistoryStore_NicheMatchIsCaseInsensitive(t *testing.T) {
	for name, store := range storesUnderTest(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Record(ctx, "Coffee Shop", "latte art"); err != nil {
				t.Fatal(err)
			}
			if err := store.Record(ctx, "fitness", "leg day"); err != nil {
				t.Fatal(err)
			}

			titles, err := store.Relevant(ctx, "coffee shop")
			if err != nil {
				t.Fatal(err)
			}
			if len(titles) != 1 || titles[0] != "latte art" {
				t.Fatalf("case-insensitive match failed: %v", titles)
			}
		})
	}
}

func TestHistoryStore_IgnoresBlankInput(t *testing.T) {
	for name, store := range storesUnderTest(t, 10) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Record(ctx, "", "title"); err != nil {
				t.Fatal(err)
			}
			if err := store.Record(ctx, "coffee", "  "); err != nil {
				t.Fatal(err)
			}

			titles, err := store.Relevant(ctx, "coffee")
			if err != nil {
				t.Fatal(err)
			}
			if len(titles) != 0 {
				t.Fatalf("blank records must not be stored, got %v", titles)
			}
		})
	}
}
