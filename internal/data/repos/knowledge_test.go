package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
)

func seedKnowledge(t *testing.T, repo KnowledgeRepo, category, question string, priority int, active bool) {
	t.Helper()
	err := repo.Create(dbctx.Context{Ctx: context.Background()}, []*domain.ChatbotKnowledgeBase{{
		ID:       uuid.New(),
		Category: category,
		Question: question,
		Answer:   "Answer to: " + question,
		Priority: priority,
		IsActive: &active,
	}})
	if err != nil {
		t.Fatalf("seed knowledge: %v", err)
	}
}

func TestKnowledgeRepoActiveOrdering(t *testing.T) {
	repo := NewKnowledgeRepo(testDB(t), testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seedKnowledge(t, repo, "Patent Filing", "How do I file a patent?", 10, true)
	seedKnowledge(t, repo, "Payments", "What are the payment methods?", 5, true)
	seedKnowledge(t, repo, "Support", "Retired entry", 99, false)

	n, err := repo.Count(dbc)
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3", n, err)
	}

	active, err := repo.ListActive(dbc)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active entries = %d, want 2", len(active))
	}
	// Highest priority first; inactive rows never surface.
	if active[0].Question != "How do I file a patent?" {
		t.Fatalf("first entry = %q", active[0].Question)
	}

	byCat, err := repo.ListActiveByCategory(dbc, "Payments")
	if err != nil {
		t.Fatalf("ListActiveByCategory: %v", err)
	}
	if len(byCat) != 1 || byCat[0].Category != "Payments" {
		t.Fatalf("byCat = %+v", byCat)
	}
}
