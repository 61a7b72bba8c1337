package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/patentdesk/backend/internal/clients/identity"
	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

// ChatRequest is one inbound chatbot message.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// ChatResponse is what the chatbot answers with. Message is always set; the
// chatbot never fails a request, it degrades to an apology instead.
type ChatResponse struct {
	Message     string         `json:"message"`
	Type        string         `json:"type"` // "text", "data", or "analytics"
	QueryType   string         `json:"queryType"`
	Data        map[string]any `json:"data,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	SessionID   string         `json:"sessionId,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

type ChatbotService interface {
	// ProcessMessage classifies and answers one message. It never returns an
	// error: every failure path degrades to a usable response.
	ProcessMessage(ctx context.Context, req ChatRequest) *ChatResponse
	ConversationHistory(ctx context.Context, userID string) ([]*domain.ChatbotConversation, error)
	SessionHistory(ctx context.Context, sessionID string) ([]*domain.ChatbotConversation, error)
}

type chatbotService struct {
	knowledge     repos.KnowledgeRepo
	conversations repos.ConversationRepo
	filings       repos.FilingRepo
	users         identity.Client
	weights       MatchWeights
	now           func() time.Time
	log           *logger.Logger
}

func NewChatbotService(
	knowledge repos.KnowledgeRepo,
	conversations repos.ConversationRepo,
	filings repos.FilingRepo,
	users identity.Client,
	baseLog *logger.Logger,
) ChatbotService {
	return &chatbotService{
		knowledge:     knowledge,
		conversations: conversations,
		filings:       filings,
		users:         users,
		weights:       DefaultMatchWeights(),
		now:           time.Now,
		log:           baseLog.With("service", "ChatbotService"),
	}
}

func (s *chatbotService) ProcessMessage(ctx context.Context, req ChatRequest) *ChatResponse {
	// Empty messages get an answer but never enter the conversation log.
	if strings.TrimSpace(req.Message) == "" {
		return s.stamp(req, &ChatResponse{
			Message:   "I didn't receive a message. Please type something and try again.",
			QueryType: "error",
		})
	}

	message := strings.ToLower(strings.TrimSpace(req.Message))

	var resp *ChatResponse
	switch ClassifyIntent(message) {
	case IntentGreeting:
		resp = s.handleGreeting(ctx, req)
	case IntentPatentCount:
		resp = s.handlePatentCount(ctx)
	case IntentStatePatents:
		resp = s.handleStatePatents(ctx, message)
	case IntentCityPatents:
		resp = s.handleCityPatents(ctx, message)
	case IntentStatusQuery:
		resp = s.handleStatusQuery(ctx)
	case IntentUserRegistration:
		resp = s.handleUserRegistration(ctx, message)
	case IntentPatentAnalytics:
		resp = s.handlePatentAnalytics(ctx, message)
	default:
		resp = s.handleGeneral(ctx, message)
	}

	if resp == nil {
		resp = &ChatResponse{
			Message:   "I apologize, but I couldn't generate a response. Please try rephrasing your question.",
			QueryType: "error",
		}
	}
	return s.finish(ctx, req, resp)
}

// stamp fills the envelope fields every response carries. Handlers that
// answer with structured data set Type themselves; everything else is text.
func (s *chatbotService) stamp(req ChatRequest, resp *ChatResponse) *ChatResponse {
	if resp.Type == "" {
		resp.Type = "text"
	}
	resp.SessionID = req.SessionID
	resp.Timestamp = s.now()
	return resp
}

// finish stamps the response and records the exchange. Conversation saves
// are best effort and never affect the answer.
func (s *chatbotService) finish(ctx context.Context, req ChatRequest, resp *ChatResponse) *ChatResponse {
	s.stamp(req, resp)

	conv := &domain.ChatbotConversation{
		ID:          uuid.New(),
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		BotResponse: resp.Message,
		QueryType:   resp.QueryType,
	}
	if resp.Data != nil {
		if raw, err := json.Marshal(resp.Data); err == nil {
			conv.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.conversations.Create(dbctx.Context{Ctx: ctx}, conv); err != nil {
		s.log.Warn("Failed to save conversation", "session_id", req.SessionID, "error", err)
	}
	return resp
}

func (s *chatbotService) handleGeneral(ctx context.Context, message string) *ChatResponse {
	entries, err := s.knowledge.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		s.log.Warn("Knowledge base lookup failed", "error", err)
		return generalHelpResponse()
	}

	type scored struct {
		entry *domain.ChatbotKnowledgeBase
		score int
	}
	var (
		best    *scored
		matches []scored
	)
	for _, kb := range entries {
		score := CalculateMatchScore(message, kb, s.weights)
		if score > 0 {
			matches = append(matches, scored{entry: kb, score: score})
		}
		if best == nil || score > best.score {
			best = &scored{entry: kb, score: score}
		}
	}

	if best == nil || best.score < s.weights.Threshold {
		return generalHelpResponse()
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	var suggestions []string
	for _, m := range matches {
		if len(suggestions) >= 4 {
			break
		}
		if m.entry.ID != best.entry.ID && m.entry.Question != "" {
			suggestions = append(suggestions, m.entry.Question)
		}
	}
	if len(suggestions) < 3 {
		suggestions = s.appendCategorySuggestions(ctx, best.entry.Category, suggestions)
	}

	return &ChatResponse{
		Message:     best.entry.Answer,
		QueryType:   "knowledge_base",
		Suggestions: suggestions,
	}
}

func (s *chatbotService) appendCategorySuggestions(ctx context.Context, category string, suggestions []string) []string {
	if category == "" {
		return suggestions
	}
	related, err := s.knowledge.ListActiveByCategory(dbctx.Context{Ctx: ctx}, category)
	if err != nil {
		return suggestions
	}
	for _, kb := range related {
		if len(suggestions) >= 4 {
			break
		}
		if kb.Question == "" || containsString(suggestions, kb.Question) {
			continue
		}
		suggestions = append(suggestions, kb.Question)
	}
	return suggestions
}

func (s *chatbotService) ConversationHistory(ctx context.Context, userID string) ([]*domain.ChatbotConversation, error) {
	return s.conversations.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *chatbotService) SessionHistory(ctx context.Context, sessionID string) ([]*domain.ChatbotConversation, error) {
	return s.conversations.ListBySession(dbctx.Context{Ctx: ctx}, sessionID)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
