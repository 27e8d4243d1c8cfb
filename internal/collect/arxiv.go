package collect

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/factlens/factlens/internal/fetch"
	"github.com/factlens/factlens/internal/model"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivCollector queries the arXiv Atom API. By default a record's
// body is the abstract; with a fetcher attached the full paper page is
// retrieved and used instead.
type ArxivCollector struct {
	client     *http.Client
	fetcher    *fetch.Fetcher
	maxResults int
	log        *slog.Logger
}

// NewArxivCollector creates an arXiv collector returning up to
// maxResults records per query
func NewArxivCollector(maxResults int, fetcher *fetch.Fetcher, log *slog.Logger) *ArxivCollector {
	if maxResults <= 0 {
		maxResults = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &ArxivCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		fetcher:    fetcher,
		maxResults: maxResults,
		log:        log,
	}
}

// Name returns the source identifier
func (c *ArxivCollector) Name() string { return "arxiv" }

// Collect searches arXiv for every query and returns the union of
// results. A query that fails is logged and skipped.
func (c *ArxivCollector) Collect(ctx context.Context, queries []string) ([]model.RawRecord, error) {
	var records []model.RawRecord
	for _, query := range queries {
		found, err := c.search(ctx, query)
		if err != nil {
			c.log.Warn("arxiv query failed", "query", query, "error", err)
			continue
		}
		records = append(records, found...)
	}

	c.log.Info("arxiv collection finished", "queries", len(queries), "records", len(records))
	return records, nil
}

func (c *ArxivCollector) search(ctx context.Context, query string) ([]model.RawRecord, error) {
	q := url.QueryEscape(fmt.Sprintf("all:%q", query))
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, c.maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse arxiv response: %w", err)
	}

	records := make([]model.RawRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		records = append(records, model.RawRecord{
			"entry_id":  strings.TrimSpace(entry.ID),
			"title":     strings.TrimSpace(entry.Title),
			"published": strings.TrimSpace(entry.Published),
			"body":      c.body(ctx, entry),
			"source":    "arxiv",
		})
	}
	return records, nil
}

// body returns the fullest text available for an entry
func (c *ArxivCollector) body(ctx context.Context, entry arxivEntry) string {
	abstract := strings.TrimSpace(entry.Summary)
	if c.fetcher == nil {
		return abstract
	}

	text, err := c.fetcher.FetchText(ctx, strings.TrimSpace(entry.ID))
	if err != nil || text == "" {
		c.log.Debug("falling back to abstract", "entry", entry.ID, "error", err)
		return abstract
	}
	return text
}

// arXiv Atom feed XML structures
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}
