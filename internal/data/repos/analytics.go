package repos

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type AnalyticsRepo interface {
	GetByDate(dbc dbctx.Context, date time.Time) (*domain.DailyAnalytics, error)
	Save(dbc dbctx.Context, row *domain.DailyAnalytics) error
	ListRange(dbc dbctx.Context, start, end time.Time) ([]*domain.DailyAnalytics, error)
	DeleteOlderThan(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type analyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalyticsRepo(db *gorm.DB, log *logger.Logger) AnalyticsRepo {
	return &analyticsRepo{db: db, log: log.With("repo", "AnalyticsRepo")}
}

func (r *analyticsRepo) conn(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *analyticsRepo) GetByDate(dbc dbctx.Context, date time.Time) (*domain.DailyAnalytics, error) {
	var row domain.DailyAnalytics
	day := date.Truncate(24 * time.Hour)
	if err := r.conn(dbc).First(&row, "metric_date = ?", day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *analyticsRepo) Save(dbc dbctx.Context, row *domain.DailyAnalytics) error {
	if row == nil {
		return pkgerrors.ErrInvalidArgument
	}
	return r.conn(dbc).Save(row).Error
}

func (r *analyticsRepo) ListRange(dbc dbctx.Context, start, end time.Time) ([]*domain.DailyAnalytics, error) {
	var out []*domain.DailyAnalytics
	if err := r.conn(dbc).
		Where("metric_date >= ? AND metric_date <= ?", start, end).
		Order("metric_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOlderThan removes rollups before the cutoff and reports how many
// rows went away. The retention worker calls this inside its own
// transaction.
func (r *analyticsRepo) DeleteOlderThan(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	res := r.conn(dbc).Where("metric_date < ?", cutoff).Delete(&domain.DailyAnalytics{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
