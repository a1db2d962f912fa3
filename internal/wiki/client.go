// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wiki

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/rejected-theories/internal/httputil"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

// Client performs the search and extract calls.
type Client struct {
	Builder   Builder
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a Client for the configured endpoints.
func NewClient(cfg types.WikipediaConfig) *Client {
	return &Client{
		Builder:   Builder{APIBase: cfg.APIBase, PageBase: cfg.PageBase},
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		UserAgent: cfg.UserAgent,
	}
}

// Search returns the hits for year in API order. A successful response
// without a query.search list yields an empty, non-nil slice.
func (c *Client) Search(ctx context.Context, year int) ([]types.SearchHit, error) {
	var sr searchResponse
	if err := httputil.GetJSON(ctx, c.HTTP, c.Builder.SearchURL(year), c.UserAgent, &sr); err != nil {
		return nil, err
	}

	hits := make([]types.SearchHit, 0, len(sr.Query.Search))
	for _, h := range sr.Query.Search {
		hits = append(hits, types.SearchHit{PageID: h.PageID, Title: h.Title})
	}
	return hits, nil
}

// Extract returns the plain-text intro of one page. The string is empty
// when the page is missing from the response or has no extract.
func (c *Client) Extract(ctx context.Context, pageID int) (string, error) {
	var er extractResponse
	if err := httputil.GetJSON(ctx, c.HTTP, c.Builder.DetailURL(pageID), c.UserAgent, &er); err != nil {
		return "", err
	}
	page, ok := er.Query.Pages[strconv.Itoa(pageID)]
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(page.Extract), nil
}

// Link returns the display link for pageID.
func (c *Client) Link(pageID int) string {
	return c.Builder.PageLink(pageID)
}

// MediaWiki action API JSON structures.
type searchResponse struct {
	Query struct {
		Search []searchHit `json:"search"`
	} `json:"query"`
}

type searchHit struct {
	NS     int    `json:"ns"`
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
	Size   int    `json:"size"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]extractPage `json:"pages"`
	} `json:"query"`
}

type extractPage struct {
	PageID  int    `json:"pageid"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}
