package repos

import (
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type KnowledgeRepo interface {
	Create(dbc dbctx.Context, rows []*domain.ChatbotKnowledgeBase) error
	Count(dbc dbctx.Context) (int64, error)
	// ListActive returns active entries ordered by priority descending.
	// The matcher's tie-break depends on this ordering.
	ListActive(dbc dbctx.Context) ([]*domain.ChatbotKnowledgeBase, error)
	ListActiveByCategory(dbc dbctx.Context, category string) ([]*domain.ChatbotKnowledgeBase, error)
}

type knowledgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewKnowledgeRepo(db *gorm.DB, log *logger.Logger) KnowledgeRepo {
	return &knowledgeRepo{db: db, log: log.With("repo", "KnowledgeRepo")}
}

func (r *knowledgeRepo) conn(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *knowledgeRepo) Create(dbc dbctx.Context, rows []*domain.ChatbotKnowledgeBase) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row == nil {
			return pkgerrors.ErrInvalidArgument
		}
	}
	return r.conn(dbc).Create(&rows).Error
}

func (r *knowledgeRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&domain.ChatbotKnowledgeBase{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *knowledgeRepo) ListActive(dbc dbctx.Context) ([]*domain.ChatbotKnowledgeBase, error) {
	var out []*domain.ChatbotKnowledgeBase
	if err := r.conn(dbc).
		Where("is_active = ?", true).
		Order("priority DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *knowledgeRepo) ListActiveByCategory(dbc dbctx.Context, category string) ([]*domain.ChatbotKnowledgeBase, error) {
	if category == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var out []*domain.ChatbotKnowledgeBase
	if err := r.conn(dbc).
		Where("category = ? AND is_active = ?", category, true).
		Order("priority DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
