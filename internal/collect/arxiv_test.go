package collect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>  Attention Is Not All You Need  </title>
    <summary>We revisit the role of attention in transformers.</summary>
    <published>2023-01-17T12:00:00Z</published>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.00001v2</id>
    <title>Retrieval for Verification</title>
    <summary>A study of retrieval-augmented claim checking.</summary>
    <published>2024-05-01T09:30:00Z</published>
  </entry>
</feed>`

func TestArxivCollector_Collect(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(arxivFeedXML))
	}))
	defer srv.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = srv.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewArxivCollector(10, nil, nil)

	records, err := c.Collect(context.Background(), []string{"attention mechanisms"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if !strings.Contains(gotQuery, "attention mechanisms") {
		t.Errorf("query not forwarded: %q", gotQuery)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first["entry_id"] != "http://arxiv.org/abs/2301.07041v1" {
		t.Errorf("unexpected entry_id: %v", first["entry_id"])
	}
	if first["title"] != "Attention Is Not All You Need" {
		t.Errorf("title not trimmed: %q", first["title"])
	}
	if first["source"] != "arxiv" {
		t.Errorf("expected source arxiv, got %v", first["source"])
	}
	if body, _ := first["body"].(string); !strings.Contains(body, "role of attention") {
		t.Errorf("expected abstract as body, got %q", body)
	}

	// The collector output must survive normalization
	docs := Normalize(records)
	if docs[0].Date != "2023-01-17" {
		t.Errorf("expected truncated date, got %q", docs[0].Date)
	}
	if docs[1].ID != "http://arxiv.org/abs/2405.00001v2" {
		t.Errorf("entry_id not resolved as id: %q", docs[1].ID)
	}
}

func TestArxivCollector_FailedQuerySkipped(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(arxivFeedXML))
	}))
	defer srv.Close()

	oldBase := arxivAPIBase
	arxivAPIBase = srv.URL
	defer func() { arxivAPIBase = oldBase }()

	c := NewArxivCollector(10, nil, nil)

	records, err := c.Collect(context.Background(), []string{"bad", "good"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected surviving query's 2 records, got %d", len(records))
	}
}
