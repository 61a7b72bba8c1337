package services

import (
	"context"
	"errors"
	"testing"

	"github.com/patentdesk/backend/internal/clients/patentsearch"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
)

type fakeUpstream struct {
	results []patentsearch.Result
	err     error
	calls   int
}

func (c *fakeUpstream) Search(ctx context.Context, query string) ([]patentsearch.Result, error) {
	c.calls++
	return c.results, c.err
}

func TestQuickSearchCachesUpstreamResults(t *testing.T) {
	t.Parallel()
	cacheRepo := &fakePatentCacheRepo{}
	upstream := &fakeUpstream{results: []patentsearch.Result{
		{
			PatentID:          "patent/US1234567A/en",
			PublicationNumber: "US1234567A",
			Title:             "Solar Powered Water Purifier",
			FilingDate:        "2019-04-02",
		},
		{
			PatentID: "patent/US7654321B/en",
			Title:    "",
		},
	}}
	svc := NewPatentSearchService(cacheRepo, upstream, testLogger(t))

	rows, err := svc.QuickSearch(context.Background(), "solar purifier")
	if err != nil {
		t.Fatalf("QuickSearch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].SearchQuery != "solar purifier" {
		t.Fatalf("searchQuery = %q", rows[0].SearchQuery)
	}
	if rows[0].FilingDate == nil {
		t.Fatal("filing date not parsed")
	}
	if rows[1].Title != "Untitled Patent" {
		t.Fatalf("missing title should default, got %q", rows[1].Title)
	}

	// The second identical search is served locally.
	if _, err := svc.QuickSearch(context.Background(), "solar purifier"); err != nil {
		t.Fatalf("cached QuickSearch: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", upstream.calls)
	}
}

func TestQuickSearchUpstreamFailure(t *testing.T) {
	t.Parallel()
	upstream := &fakeUpstream{err: errors.New("provider down")}
	svc := NewPatentSearchService(&fakePatentCacheRepo{}, upstream, testLogger(t))

	if _, err := svc.QuickSearch(context.Background(), "anything"); err == nil {
		t.Fatal("upstream failure should surface")
	}
}

func TestQuickSearchValidation(t *testing.T) {
	t.Parallel()
	svc := NewPatentSearchService(&fakePatentCacheRepo{}, &fakeUpstream{}, testLogger(t))

	if _, err := svc.QuickSearch(context.Background(), "  "); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank query: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.ListByStatus(context.Background(), ""); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank status: err = %v, want ErrInvalidArgument", err)
	}
}
