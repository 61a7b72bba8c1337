package repos

import (
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type ConversationRepo interface {
	Create(dbc dbctx.Context, row *domain.ChatbotConversation) error
	ListByUser(dbc dbctx.Context, userID string) ([]*domain.ChatbotConversation, error)
	ListBySession(dbc dbctx.Context, sessionID string) ([]*domain.ChatbotConversation, error)
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: log.With("repo", "ConversationRepo")}
}

func (r *conversationRepo) conn(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *conversationRepo) Create(dbc dbctx.Context, row *domain.ChatbotConversation) error {
	if row == nil {
		return pkgerrors.ErrInvalidArgument
	}
	return r.conn(dbc).Create(row).Error
}

// ListByUser returns a user's conversations, newest first.
func (r *conversationRepo) ListByUser(dbc dbctx.Context, userID string) ([]*domain.ChatbotConversation, error) {
	if userID == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var out []*domain.ChatbotConversation
	if err := r.conn(dbc).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListBySession returns a session's conversations in chronological order.
func (r *conversationRepo) ListBySession(dbc dbctx.Context, sessionID string) ([]*domain.ChatbotConversation, error) {
	if sessionID == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var out []*domain.ChatbotConversation
	if err := r.conn(dbc).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
