package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
)

type fakeKnowledgeRepo struct {
	entries []*domain.ChatbotKnowledgeBase
	err     error
}

func (r *fakeKnowledgeRepo) Create(dbctx.Context, []*domain.ChatbotKnowledgeBase) error { return nil }
func (r *fakeKnowledgeRepo) Count(dbctx.Context) (int64, error) {
	return int64(len(r.entries)), r.err
}
func (r *fakeKnowledgeRepo) ListActive(dbctx.Context) ([]*domain.ChatbotKnowledgeBase, error) {
	return r.entries, r.err
}
func (r *fakeKnowledgeRepo) ListActiveByCategory(dbc dbctx.Context, category string) ([]*domain.ChatbotKnowledgeBase, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.ChatbotKnowledgeBase
	for _, kb := range r.entries {
		if kb.Category == category {
			out = append(out, kb)
		}
	}
	return out, nil
}

type fakeConversationRepo struct {
	saved     []*domain.ChatbotConversation
	createErr error
}

func (r *fakeConversationRepo) Create(dbc dbctx.Context, row *domain.ChatbotConversation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.saved = append(r.saved, row)
	return nil
}

func (r *fakeConversationRepo) ListByUser(dbctx.Context, string) ([]*domain.ChatbotConversation, error) {
	return r.saved, nil
}

func (r *fakeConversationRepo) ListBySession(dbctx.Context, string) ([]*domain.ChatbotConversation, error) {
	return r.saved, nil
}

type fakeIdentity struct {
	name    string
	nameErr error
	count   int64
}

func (c *fakeIdentity) FirstName(ctx context.Context, userRef string) (string, error) {
	return c.name, c.nameErr
}

func (c *fakeIdentity) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	return c.count, nil
}

func newTestChatbot(t *testing.T, knowledge *fakeKnowledgeRepo, convs *fakeConversationRepo, filings *fakeFilingRepo, users *fakeIdentity) *chatbotService {
	t.Helper()
	fixed := time.Date(2026, time.January, 14, 12, 0, 0, 0, time.UTC)
	return &chatbotService{
		knowledge:     knowledge,
		conversations: convs,
		filings:       filings,
		users:         users,
		weights:       DefaultMatchWeights(),
		now:           func() time.Time { return fixed },
		log:           testLogger(t).With("service", "ChatbotService"),
	}
}

func TestProcessMessageEmpty(t *testing.T) {
	t.Parallel()
	convs := &fakeConversationRepo{}
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, convs, newFakeFilingRepo(), &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "   ", SessionID: "s-1"})
	if resp.QueryType != "error" {
		t.Fatalf("queryType = %q, want error", resp.QueryType)
	}
	if resp.SessionID != "s-1" {
		t.Fatalf("sessionId = %q, want s-1", resp.SessionID)
	}
	if resp.Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}
	if resp.Type != "text" {
		t.Fatalf("type = %q, want text", resp.Type)
	}
	if len(convs.saved) != 0 {
		t.Fatalf("saved conversations = %d, want none for an empty message", len(convs.saved))
	}
}

func TestProcessMessageGreeting(t *testing.T) {
	t.Parallel()
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, &fakeConversationRepo{},
		newFakeFilingRepo(), &fakeIdentity{name: "Asha"})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "Hello there", UserID: "42"})
	if resp.QueryType != "greeting" {
		t.Fatalf("queryType = %q, want greeting", resp.QueryType)
	}
	if !strings.HasPrefix(resp.Message, "Hi Asha!") {
		t.Fatalf("message = %q, want personalized greeting", resp.Message)
	}
	if resp.Type != "text" {
		t.Fatalf("type = %q, want text", resp.Type)
	}
	if len(resp.Suggestions) != 6 {
		t.Fatalf("suggestions = %d, want 6 defaults", len(resp.Suggestions))
	}
}

func TestProcessMessageGreetingAnonymous(t *testing.T) {
	t.Parallel()
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, &fakeConversationRepo{},
		newFakeFilingRepo(), &fakeIdentity{nameErr: errors.New("identity down")})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "hi", UserID: "42"})
	if !strings.HasPrefix(resp.Message, "Hi there!") {
		t.Fatalf("message = %q, want fallback greeting", resp.Message)
	}
}

func TestProcessMessagePatentCount(t *testing.T) {
	t.Parallel()
	repo := newFakeFilingRepo(pendingFiling(), pendingFiling(), pendingFiling())
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, &fakeConversationRepo{}, repo, &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "How many patents are there?"})
	if resp.QueryType != "patent_count" {
		t.Fatalf("queryType = %q, want patent_count", resp.QueryType)
	}
	if resp.Type != "data" {
		t.Fatalf("type = %q, want data", resp.Type)
	}
	if got := resp.Data["totalPatents"]; got != int64(3) {
		t.Fatalf("totalPatents = %v, want 3", got)
	}
}

func TestProcessMessagePatentAnalyticsType(t *testing.T) {
	t.Parallel()
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, &fakeConversationRepo{}, newFakeFilingRepo(), &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "patents filed this week"})
	if resp.QueryType != "patent_analytics" {
		t.Fatalf("queryType = %q, want patent_analytics", resp.QueryType)
	}
	if resp.Type != "analytics" {
		t.Fatalf("type = %q, want analytics", resp.Type)
	}
	if resp.Data["timeFrame"] == "" {
		t.Fatal("timeFrame missing from data")
	}
}

func TestProcessMessageKnowledgeBase(t *testing.T) {
	t.Parallel()
	knowledge := &fakeKnowledgeRepo{entries: []*domain.ChatbotKnowledgeBase{
		func() *domain.ChatbotKnowledgeBase {
			kb := kbEntry(t, "How do I file a patent?", "Open the filing form and complete all five sections.", "Patent Filing", []string{"file", "filing"}, 5)
			kb.ID = uuid.New()
			return kb
		}(),
		func() *domain.ChatbotKnowledgeBase {
			kb := kbEntry(t, "What are the filing fees?", "Fees depend on the applicant type.", "Patent Filing", []string{"fees"}, 2)
			kb.ID = uuid.New()
			return kb
		}(),
	}}
	svc := newTestChatbot(t, knowledge, &fakeConversationRepo{}, newFakeFilingRepo(), &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "how do i file a patent"})
	if resp.QueryType != "knowledge_base" {
		t.Fatalf("queryType = %q, want knowledge_base", resp.QueryType)
	}
	if resp.Message != "Open the filing form and complete all five sections." {
		t.Fatalf("message = %q, want the stored answer", resp.Message)
	}
}

func TestProcessMessageBelowThreshold(t *testing.T) {
	t.Parallel()
	knowledge := &fakeKnowledgeRepo{entries: []*domain.ChatbotKnowledgeBase{
		kbEntry(t, "How do I contact support?", "Email support.", "Support", []string{"support"}, 0),
	}}
	svc := newTestChatbot(t, knowledge, &fakeConversationRepo{}, newFakeFilingRepo(), &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "xyzzy"})
	if resp.QueryType != "general_help" {
		t.Fatalf("queryType = %q, want general_help", resp.QueryType)
	}
}

func TestProcessMessageSurvivesConversationSaveFailure(t *testing.T) {
	t.Parallel()
	convs := &fakeConversationRepo{createErr: errors.New("db down")}
	svc := newTestChatbot(t, &fakeKnowledgeRepo{}, convs, newFakeFilingRepo(), &fakeIdentity{})

	resp := svc.ProcessMessage(context.Background(), ChatRequest{Message: "hello"})
	if resp == nil || resp.Message == "" {
		t.Fatal("response should survive a failed conversation save")
	}
}
