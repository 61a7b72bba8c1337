package repos

import (
	"context"
	"testing"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
)

func TestPatentCacheRepoSearchAndDedup(t *testing.T) {
	repo := NewPatentCacheRepo(testDB(t), testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	rows := []*domain.CachedPatent{
		{
			ID:          "US-1234567-A",
			Title:       "Solar Powered Water Purifier",
			Status:      "Granted",
			SearchQuery: "solar water",
		},
		{
			ID:           "US-7654321-B",
			Title:        "Wind Turbine Blade",
			AbstractText: "A turbine blade with improved solar fatigue resistance.",
			Status:       "Application",
			SearchQuery:  "wind turbine",
		},
	}
	if err := repo.CreateBatch(dbc, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	// Re-inserting the same IDs is a no-op, not an error.
	if err := repo.CreateBatch(dbc, rows[:1]); err != nil {
		t.Fatalf("CreateBatch repeat: %v", err)
	}
	n, err := repo.Count(dbc)
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}

	// Matches the stored query, title, or abstract.
	hits, err := repo.Search(dbc, "SOLAR")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("solar hits = %d, want 2", len(hits))
	}

	granted, err := repo.ListByStatus(dbc, "granted")
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(granted) != 1 || granted[0].ID != "US-1234567-A" {
		t.Fatalf("granted = %+v", granted)
	}

	if _, err := repo.Search(dbc, "   "); err == nil {
		t.Fatal("blank query should be rejected")
	}
}
