package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/clients/identity"
	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/platform/cache"
)

const (
	analyticsRetentionDays = 90
	growthTrendCacheKey    = "analytics:growth-trend:"
	growthTrendCacheTTL    = 5 * time.Minute
)

// AnalyticsDataPoint is one chartable day in the growth trend.
type AnalyticsDataPoint struct {
	Date     string `json:"date"`     // short label, e.g. "Jan 5"
	FullDate string `json:"fullDate"` // e.g. "January 5, 2026"
	Users    int    `json:"users"`
	Patents  int    `json:"patents"`
	Filings  int    `json:"filings"`
}

type AnalyticsService interface {
	UpdateTodayMetrics(ctx context.Context, totalUsers, totalPatents, totalFilings int) (*domain.DailyAnalytics, error)
	InitializeDateRange(ctx context.Context, days int) error
	// GrowthTrend returns one point per day over the window, forward-filling
	// days with no recorded activity so charts hold the last known values.
	GrowthTrend(ctx context.Context, days int) ([]AnalyticsDataPoint, error)
	// SyncCurrentMetrics refreshes today's rollup from live counts.
	SyncCurrentMetrics(ctx context.Context) (*domain.DailyAnalytics, error)
	// StartRetentionWorker trims rollups older than the retention window once
	// a day until the context is cancelled.
	StartRetentionWorker(ctx context.Context)
}

type analyticsService struct {
	db          *gorm.DB
	analytics   repos.AnalyticsRepo
	filings     repos.FilingRepo
	patentCache repos.PatentCacheRepo
	users       identity.Client
	cache       *cache.Client
	now         func() time.Time
	log         *logger.Logger
}

func NewAnalyticsService(
	db *gorm.DB,
	analytics repos.AnalyticsRepo,
	filings repos.FilingRepo,
	patentCache repos.PatentCacheRepo,
	users identity.Client,
	cacheClient *cache.Client,
	baseLog *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		db:          db,
		analytics:   analytics,
		filings:     filings,
		patentCache: patentCache,
		users:       users,
		cache:       cacheClient,
		now:         time.Now,
		log:         baseLog.With("service", "AnalyticsService"),
	}
}

func (s *analyticsService) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if s.db == nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *analyticsService) UpdateTodayMetrics(ctx context.Context, totalUsers, totalPatents, totalFilings int) (*domain.DailyAnalytics, error) {
	today := day(s.now())
	dbc := dbctx.Context{Ctx: ctx}

	row, err := s.analytics.GetByDate(dbc, today)
	if err != nil {
		if err != pkgerrors.ErrNotFound {
			return nil, err
		}
		row = &domain.DailyAnalytics{ID: uuid.New(), MetricDate: today}
	}
	row.TotalUsers = totalUsers
	row.TotalPatents = totalPatents
	row.TotalFilings = totalFilings
	if err := s.analytics.Save(dbc, row); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, growthTrendCacheKey+"30")
	return row, nil
}

// InitializeDateRange backfills missing days with the previous day's values
// so a fresh window never charts as zeros.
func (s *analyticsService) InitializeDateRange(ctx context.Context, days int) error {
	if days <= 0 {
		return pkgerrors.ErrInvalidArgument
	}
	end := day(s.now())
	start := end.AddDate(0, 0, -(days - 1))

	return s.inTx(ctx, func(dbc dbctx.Context) error {
		var lastUsers, lastPatents, lastFilings int
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			row, err := s.analytics.GetByDate(dbc, d)
			switch {
			case err == nil:
				lastUsers = row.TotalUsers
				lastPatents = row.TotalPatents
				lastFilings = row.TotalFilings
			case err == pkgerrors.ErrNotFound:
				fill := &domain.DailyAnalytics{
					ID:           uuid.New(),
					MetricDate:   d,
					TotalUsers:   lastUsers,
					TotalPatents: lastPatents,
					TotalFilings: lastFilings,
				}
				if err := s.analytics.Save(dbc, fill); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}

func (s *analyticsService) GrowthTrend(ctx context.Context, days int) ([]AnalyticsDataPoint, error) {
	if days <= 0 {
		return nil, pkgerrors.ErrInvalidArgument
	}

	cacheKey := growthTrendCacheKey + strconv.Itoa(days)
	if raw, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached []AnalyticsDataPoint
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	if err := s.InitializeDateRange(ctx, days); err != nil {
		return nil, err
	}

	end := day(s.now())
	start := end.AddDate(0, 0, -(days - 1))
	rows, err := s.analytics.ListRange(dbctx.Context{Ctx: ctx}, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]AnalyticsDataPoint, 0, len(rows))
	var lastUsers, lastPatents, lastFilings int
	for _, row := range rows {
		if row.TotalUsers > 0 {
			lastUsers = row.TotalUsers
		}
		if row.TotalPatents > 0 {
			lastPatents = row.TotalPatents
		}
		if row.TotalFilings > 0 {
			lastFilings = row.TotalFilings
		}
		points = append(points, AnalyticsDataPoint{
			Date:     row.MetricDate.Format("Jan 2"),
			FullDate: row.MetricDate.Format("January 2, 2006"),
			Users:    lastUsers,
			Patents:  lastPatents,
			Filings:  lastFilings,
		})
	}

	if raw, err := json.Marshal(points); err == nil {
		s.cache.Set(ctx, cacheKey, raw, growthTrendCacheTTL)
	}
	return points, nil
}

// SyncCurrentMetrics gathers live counts in parallel. The user count comes
// from the identity provider and falls back to today's stored value when
// that dependency is down.
func (s *analyticsService) SyncCurrentMetrics(ctx context.Context) (*domain.DailyAnalytics, error) {
	dbc := dbctx.Context{Ctx: ctx}

	var filingCount, patentCount, userCount int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		filingCount, err = s.filings.Count(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		patentCount, err = s.patentCache.Count(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		if s.users == nil {
			return nil
		}
		n, err := s.users.CountRegisteredSince(gctx, time.Time{})
		if err != nil {
			s.log.Warn("Identity count unavailable, keeping stored value", "error", err)
			return nil
		}
		userCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if userCount == 0 {
		if row, err := s.analytics.GetByDate(dbc, day(s.now())); err == nil {
			userCount = int64(row.TotalUsers)
		}
	}

	return s.UpdateTodayMetrics(ctx, int(userCount), int(patentCount), int(filingCount))
}

func (s *analyticsService) StartRetentionWorker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		s.log.Info("Analytics retention worker started", "retention_days", analyticsRetentionDays)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Analytics retention worker stopped")
				return
			case <-ticker.C:
				s.cleanupOldData(ctx)
			}
		}
	}()
}

func (s *analyticsService) cleanupOldData(ctx context.Context) {
	cutoff := day(s.now()).AddDate(0, 0, -analyticsRetentionDays)
	err := s.inTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.analytics.DeleteOlderThan(dbc, cutoff)
		if err != nil {
			return err
		}
		s.log.Info("Trimmed old analytics rollups", "cutoff", cutoff.Format("2006-01-02"), "rows", n)
		return nil
	})
	if err != nil {
		s.log.Error("Analytics cleanup failed", "error", err)
	}
}
