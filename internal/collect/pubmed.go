package collect

import (
	"context"
	"encoding/json"
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

// eutilsAPIBase is the NCBI E-utilities endpoint, overridable in tests.
var eutilsAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMedCollector queries PubMed through the E-utilities API: esearch
// for matching IDs, then efetch for abstracts.
type PubMedCollector struct {
	client     *http.Client
	maxResults int
	log        *slog.Logger
}

// NewPubMedCollector creates a PubMed collector returning up to
// maxResults records per query
func NewPubMedCollector(maxResults int, log *slog.Logger) *PubMedCollector {
	if maxResults <= 0 {
		maxResults = 10
	}
	if log == nil {
		log = slog.Default()
	}

	return &PubMedCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		maxResults: maxResults,
		log:        log,
	}
}

// Name returns the source identifier
func (c *PubMedCollector) Name() string { return "pubmed" }

// Collect searches PubMed for every query and returns the union of
// results. A query that fails is logged and skipped.
func (c *PubMedCollector) Collect(ctx context.Context, queries []string) ([]model.RawRecord, error) {
	var records []model.RawRecord
	for _, query := range queries {
		ids, err := c.searchIDs(ctx, query)
		if err != nil {
			c.log.Warn("pubmed search failed", "query", query, "error", err)
			continue
		}
		if len(ids) == 0 {
			continue
		}

		found, err := c.fetchArticles(ctx, ids)
		if err != nil {
			c.log.Warn("pubmed fetch failed", "query", query, "error", err)
			continue
		}
		records = append(records, found...)
	}

	c.log.Info("pubmed collection finished", "queries", len(queries), "records", len(records))
	return records, nil
}

func (c *PubMedCollector) searchIDs(ctx context.Context, query string) ([]string, error) {
	reqURL := fmt.Sprintf("%s/esearch.fcgi?db=pubmed&term=%s&retmax=%d&retmode=json&sort=relevance",
		eutilsAPIBase, url.QueryEscape(query), c.maxResults)

	var result struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}
	return result.ESearchResult.IDList, nil
}

func (c *PubMedCollector) fetchArticles(ctx context.Context, ids []string) ([]model.RawRecord, error) {
	reqURL := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml",
		eutilsAPIBase, strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parse efetch response: %w", err)
	}

	records := make([]model.RawRecord, 0, len(set.Articles))
	for _, a := range set.Articles {
		records = append(records, model.RawRecord{
			"Id":     a.PMID,
			"Title":  strings.TrimSpace(a.Title),
			"Date":   a.publishedDate(),
			"Body":   strings.TrimSpace(strings.Join(a.Abstract, "\n")),
			"source": "pubmed",
		})
	}
	return records, nil
}

func (c *PubMedCollector) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", fetch.DefaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("esearch request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse esearch response: %w", err)
	}
	return nil
}

// PubMed efetch XML structures, reduced to the fields we index
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	PMID     string     `xml:"MedlineCitation>PMID"`
	Title    string     `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []string   `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	PubDate  pubmedDate `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate"`
}

type pubmedDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

// publishedDate assembles whatever date parts PubMed provides
func (a pubmedArticle) publishedDate() string {
	parts := []string{}
	for _, p := range []string{a.PubDate.Year, a.PubDate.Month, a.PubDate.Day} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}
