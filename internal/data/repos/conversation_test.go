package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
)

func TestConversationRepoHistories(t *testing.T) {
	gdb := testDB(t)
	repo := NewConversationRepo(gdb, testLogger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	exchanges := []struct {
		user, session, message string
	}{
		{"u1", "s1", "hello"},
		{"u1", "s1", "how many patents are there?"},
		{"u2", "s2", "patents in mumbai"},
	}
	for i, e := range exchanges {
		row := &domain.ChatbotConversation{
			ID:          uuid.New(),
			UserID:      e.user,
			SessionID:   e.session,
			UserMessage: e.message,
			BotResponse: "ok",
			QueryType:   "general",
		}
		if err := repo.Create(dbc, row); err != nil {
			t.Fatalf("Create: %v", err)
		}
		// Spread creation times so the ordering assertions are stable.
		ts := time.Now().Add(time.Duration(i-10) * time.Minute)
		if err := gdb.Model(row).Update("created_at", ts).Error; err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	byUser, err := repo.ListByUser(dbc, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 2 || byUser[0].UserMessage != "how many patents are there?" {
		t.Fatalf("byUser = %+v", byUser)
	}

	bySession, err := repo.ListBySession(dbc, "s1")
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(bySession) != 2 || bySession[0].UserMessage != "hello" {
		t.Fatalf("bySession = %+v", bySession)
	}

	if _, err := repo.ListByUser(dbc, ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty user: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := repo.ListBySession(dbc, ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("empty session: err = %v, want ErrInvalidArgument", err)
	}
}
