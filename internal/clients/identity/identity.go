// Package identity talks to the external identity provider that owns user
// accounts. Filings and conversations only carry weak references to users;
// anything richer than an ID is fetched from here.
package identity

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

type Client interface {
	// FirstName resolves a display first name for a user reference, which may
	// be a numeric ID or an email. Empty string when unknown.
	FirstName(ctx context.Context, userRef string) (string, error)
	// CountRegisteredSince reports how many users registered at or after the
	// given instant.
	CountRegisteredSince(ctx context.Context, since time.Time) (int64, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewHTTPClient(log *logger.Logger) Client {
	return &httpClient{
		baseURL: utils.GetEnv("IDENTITY_BASE_URL", "http://localhost:8081", log),
		apiKey:  utils.GetEnv("IDENTITY_API_KEY", "", log),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log.With("client", "IdentityClient"),
	}
}

func (c *httpClient) FirstName(ctx context.Context, userRef string) (string, error) {
	if userRef == "" {
		return "", pkgerrors.ErrInvalidArgument
	}
	var out struct {
		FirstName string `json:"firstName"`
	}
	q := url.Values{"ref": {userRef}}
	if err := c.getJSON(ctx, "/internal/users/lookup", q, &out); err != nil {
		return "", err
	}
	return out.FirstName, nil
}

func (c *httpClient) CountRegisteredSince(ctx context.Context, since time.Time) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	q := url.Values{"since": {since.UTC().Format(time.RFC3339)}}
	if err := c.getJSON(ctx, "/internal/users/count", q, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: identity: %v", pkgerrors.ErrExternalDependency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: identity returned %d", pkgerrors.ErrExternalDependency, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
