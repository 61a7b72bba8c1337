package repos

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

// StateCount is one row of a state-wise aggregate.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// CityCount is one row of a city-wise aggregate.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type FilingRepo interface {
	Create(dbc dbctx.Context, filing *domain.PatentFiling) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.PatentFiling, error)
	Save(dbc dbctx.Context, filing *domain.PatentFiling) error
	ListAll(dbc dbctx.Context) ([]*domain.PatentFiling, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*domain.PatentFiling, error)
	ListByStatus(dbc dbctx.Context, status string) ([]*domain.PatentFiling, error)
	ListGrantedOrRejected(dbc dbctx.Context) ([]*domain.PatentFiling, error)

	Count(dbc dbctx.Context) (int64, error)
	CountFiledSince(dbc dbctx.Context, since time.Time) (int64, error)
	CountByState(dbc dbctx.Context) ([]StateCount, error)
	CountByStateSince(dbc dbctx.Context, since time.Time) ([]StateCount, error)
	CountByCitySince(dbc dbctx.Context, since time.Time) ([]CityCount, error)
	CountByCityInStateSince(dbc dbctx.Context, since time.Time, state string) ([]CityCount, error)
	CountByCityContains(dbc dbctx.Context, city string) (int64, error)
	CountByStateContains(dbc dbctx.Context, state string) (int64, error)
	StatusCounts(dbc dbctx.Context) ([]StatusCount, error)
	DistinctCitiesByState(dbc dbctx.Context, state string) ([]string, error)
}

type filingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFilingRepo(db *gorm.DB, log *logger.Logger) FilingRepo {
	return &filingRepo{db: db, log: log.With("repo", "FilingRepo")}
}

func (r *filingRepo) conn(dbc dbctx.Context) *gorm.DB {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx)
}

func (r *filingRepo) Create(dbc dbctx.Context, filing *domain.PatentFiling) error {
	if filing == nil {
		return pkgerrors.ErrInvalidArgument
	}
	return r.conn(dbc).Create(filing).Error
}

func (r *filingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.PatentFiling, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.ErrInvalidArgument
	}
	var filing domain.PatentFiling
	if err := r.conn(dbc).First(&filing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &filing, nil
}

func (r *filingRepo) Save(dbc dbctx.Context, filing *domain.PatentFiling) error {
	if filing == nil || filing.ID == uuid.Nil {
		return pkgerrors.ErrInvalidArgument
	}
	return r.conn(dbc).Save(filing).Error
}

func (r *filingRepo) ListAll(dbc dbctx.Context) ([]*domain.PatentFiling, error) {
	var out []*domain.PatentFiling
	if err := r.conn(dbc).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) ListByUser(dbc dbctx.Context, userID string) ([]*domain.PatentFiling, error) {
	var out []*domain.PatentFiling
	if err := r.conn(dbc).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) ListByStatus(dbc dbctx.Context, status string) ([]*domain.PatentFiling, error) {
	var out []*domain.PatentFiling
	if err := r.conn(dbc).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) ListGrantedOrRejected(dbc dbctx.Context) ([]*domain.PatentFiling, error) {
	var out []*domain.PatentFiling
	if err := r.conn(dbc).
		Where("LOWER(status) LIKE ? OR LOWER(status) LIKE ?", "%granted%", "%rejected%").
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := r.conn(dbc).Model(&domain.PatentFiling{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *filingRepo) CountFiledSince(dbc dbctx.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Where("created_at >= ?", since).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *filingRepo) CountByState(dbc dbctx.Context) ([]StateCount, error) {
	var out []StateCount
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Select("applicant_state AS state, COUNT(*) AS count").
		Where("applicant_state <> ''").
		Group("applicant_state").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) CountByStateSince(dbc dbctx.Context, since time.Time) ([]StateCount, error) {
	var out []StateCount
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Select("applicant_state AS state, COUNT(*) AS count").
		Where("applicant_state <> '' AND created_at >= ?", since).
		Group("applicant_state").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) CountByCitySince(dbc dbctx.Context, since time.Time) ([]CityCount, error) {
	var out []CityCount
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Select("applicant_city AS city, COUNT(*) AS count").
		Where("applicant_city <> '' AND created_at >= ?", since).
		Group("applicant_city").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) CountByCityInStateSince(dbc dbctx.Context, since time.Time, state string) ([]CityCount, error) {
	var out []CityCount
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Select("applicant_city AS city, COUNT(*) AS count").
		Where("applicant_city <> '' AND applicant_state = ? AND created_at >= ?", state, since).
		Group("applicant_city").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) CountByCityContains(dbc dbctx.Context, city string) (int64, error) {
	var n int64
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Where("LOWER(applicant_city) LIKE ?", "%"+strings.ToLower(city)+"%").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *filingRepo) CountByStateContains(dbc dbctx.Context, state string) (int64, error) {
	var n int64
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Where("LOWER(applicant_state) LIKE ?", "%"+strings.ToLower(state)+"%").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *filingRepo) StatusCounts(dbc dbctx.Context) ([]StatusCount, error) {
	var out []StatusCount
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Select("status, COUNT(*) AS count").
		Where("status <> ''").
		Group("status").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *filingRepo) DistinctCitiesByState(dbc dbctx.Context, state string) ([]string, error) {
	var out []string
	if err := r.conn(dbc).
		Model(&domain.PatentFiling{}).
		Distinct("applicant_city").
		Where("applicant_state = ? AND applicant_city <> ''", state).
		Order("applicant_city ASC").
		Pluck("applicant_city", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
