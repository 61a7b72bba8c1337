package services

import (
	"context"
	"strings"
	"time"

	"github.com/patentdesk/backend/internal/clients/patentsearch"
	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type PatentSearchService interface {
	// QuickSearch serves from the local cache when it has hits, otherwise
	// queries the upstream provider and persists what came back so the next
	// identical search is local.
	QuickSearch(ctx context.Context, query string) ([]*domain.CachedPatent, error)
	ListAll(ctx context.Context) ([]*domain.CachedPatent, error)
	ListByStatus(ctx context.Context, status string) ([]*domain.CachedPatent, error)
}

type patentSearchService struct {
	cache    repos.PatentCacheRepo
	upstream patentsearch.Client
	now      func() time.Time
	log      *logger.Logger
}

func NewPatentSearchService(
	cacheRepo repos.PatentCacheRepo,
	upstream patentsearch.Client,
	baseLog *logger.Logger,
) PatentSearchService {
	return &patentSearchService{
		cache:    cacheRepo,
		upstream: upstream,
		now:      time.Now,
		log:      baseLog.With("service", "PatentSearchService"),
	}
}

func (s *patentSearchService) QuickSearch(ctx context.Context, query string) ([]*domain.CachedPatent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	dbc := dbctx.Context{Ctx: ctx}

	local, err := s.cache.Search(dbc, query)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		s.log.Info("Serving patent search from cache", "query", query, "hits", len(local))
		return local, nil
	}

	if s.upstream == nil {
		return []*domain.CachedPatent{}, nil
	}
	results, err := s.upstream.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.CachedPatent, 0, len(results))
	for _, r := range results {
		if r.ID() == "" {
			continue
		}
		rows = append(rows, &domain.CachedPatent{
			ID:           r.ID(),
			Title:        orDefault(r.Title, "Untitled Patent"),
			AbstractText: r.Snippet,
			Assignee:     r.Assignee,
			Inventor:     r.Inventor,
			Jurisdiction: r.Language,
			AssetNumber:  orDefault(r.PublicationNumber, r.ID()),
			Status:       r.Status(),
			FilingDate:   parseUpstreamDate(r.FilingDate, r.PriorityDate),
			SearchQuery:  strings.ToLower(query),
		})
	}

	// Cache write is best effort; the caller still gets the live results.
	if err := s.cache.CreateBatch(dbc, rows); err != nil {
		s.log.Warn("Failed to cache patent search results", "query", query, "error", err)
	}
	return rows, nil
}

func (s *patentSearchService) ListAll(ctx context.Context) ([]*domain.CachedPatent, error) {
	return s.cache.ListAll(dbctx.Context{Ctx: ctx})
}

func (s *patentSearchService) ListByStatus(ctx context.Context, status string) ([]*domain.CachedPatent, error) {
	if status == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}
	return s.cache.ListByStatus(dbctx.Context{Ctx: ctx}, status)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseUpstreamDate(dates ...string) *time.Time {
	for _, d := range dates {
		if d == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return &t
		}
	}
	return nil
}
