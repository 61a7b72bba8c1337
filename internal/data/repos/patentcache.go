package repos

import (
	"strings"

	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type PatentCacheRepo interface {
	Search(dbc dbctx.Context, query string) ([]*domain.CachedPatent, error)
	CreateBatch(dbc dbctx.Context, rows []*domain.CachedPatent) error
	ListAll(dbc dbctx.Context) ([]*domain.CachedPatent, error)
	ListByStatus(dbc dbctx.Context, status string) ([]*domain.CachedPatent, error)
	Count(dbc dbctx.Context) (int64, error)
}

type patentCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatentCacheRepo(db *gorm.DB, log *logger.Logger) PatentCacheRepo {
	return &patentCacheRepo{db: db, log: log.With("repo", "PatentCacheRepo")}
}

func (r *patentCacheRepo) conn(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

// Search matches the stored query, title, or abstract against the keyword.
func (r *patentCacheRepo) Search(dbc dbctx.Context, query string) ([]*domain.CachedPatent, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	like := "%" + q + "%"
	var out []*domain.CachedPatent
	if err := r.conn(dbc).
		Where("LOWER(search_query) LIKE ? OR LOWER(title) LIKE ? OR LOWER(abstract_text) LIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *patentCacheRepo) CreateBatch(dbc dbctx.Context, rows []*domain.CachedPatent) error {
	if len(rows) == 0 {
		return nil
	}
	// Upstream results can repeat across queries; keep the first copy.
	return r.conn(dbc).
		Clauses(onConflictDoNothing()).
		Create(&rows).Error
}

func (r *patentCacheRepo) ListAll(dbc dbctx.Context) ([]*domain.CachedPatent, error) {
	var out []*domain.CachedPatent
	if err := r.conn(dbc).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *patentCacheRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&domain.CachedPatent{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *patentCacheRepo) ListByStatus(dbc dbctx.Context, status string) ([]*domain.CachedPatent, error) {
	var out []*domain.CachedPatent
	if err := r.conn(dbc).
		Where("LOWER(status) = ?", strings.ToLower(status)).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
