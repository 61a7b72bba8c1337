// Package patentsearch wraps the external Google Patents search API. Results
// come back in the provider's shape; the service layer maps them onto the
// local cache model.
package patentsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

// Result is one upstream patent hit.
type Result struct {
	PatentID          string `json:"patent_id"`
	PublicationNumber string `json:"publication_number"`
	Title             string `json:"title"`
	Snippet           string `json:"snippet"`
	Assignee          string `json:"assignee"`
	Inventor          string `json:"inventor"`
	Language          string `json:"language"`
	FilingDate        string `json:"filing_date"`
	PriorityDate      string `json:"priority_date"`
	GrantDate         string `json:"grant_date"`
	IsScholar         bool   `json:"is_scholar"`
}

// ID returns the best available identifier for the hit.
func (r Result) ID() string {
	if r.PatentID != "" {
		return r.PatentID
	}
	return r.PublicationNumber
}

// Status derives a coarse lifecycle label from the date fields.
func (r Result) Status() string {
	switch {
	case r.GrantDate != "":
		return "Granted"
	case r.FilingDate != "":
		return "Application"
	default:
		return "Active"
	}
}

type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewHTTPClient(log *logger.Logger) Client {
	return &httpClient{
		baseURL: utils.GetEnv("SERPAPI_BASE_URL", "https://serpapi.com/search", log),
		apiKey:  utils.GetEnv("SERPAPI_KEY", "", log),
		http:    &http.Client{Timeout: 20 * time.Second},
		log:     log.With("client", "PatentSearchClient"),
	}
}

func (c *httpClient) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" {
		return nil, pkgerrors.ErrInvalidArgument
	}

	q := url.Values{
		"engine":  {"google_patents"},
		"q":       {query},
		"api_key": {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	c.log.Info("Searching upstream patents", "query", query)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: patent search: %v", pkgerrors.ErrExternalDependency, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: patent search returned %d", pkgerrors.ErrExternalDependency, resp.StatusCode)
	}

	var payload struct {
		OrganicResults []Result `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: patent search: %v", pkgerrors.ErrExternalDependency, err)
	}

	// Only patent hits, first ten, scholar rows skipped.
	out := make([]Result, 0, 10)
	for _, r := range payload.OrganicResults {
		if len(out) >= 10 {
			break
		}
		if r.IsScholar {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
