package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "factlens") {
			t.Errorf("unexpected user agent: %s", ua)
		}
		_, _ = w.Write([]byte("<html><body><p>hello world</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "", 0)

	body, err := f.Fetch(context.Background(), srv.URL+"/paper")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(body, "hello world") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestFetcher_RobotsDisallow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
			return
		}
		_, _ = w.Write([]byte("secret"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "", 0)

	if _, err := f.Fetch(context.Background(), srv.URL+"/private/doc"); err == nil {
		t.Fatal("expected robots.txt disallow error")
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/public/doc"); err != nil {
		t.Errorf("allowed path failed: %v", err)
	}
}

func TestFetcher_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "", 100)

	body, err := f.Fetch(context.Background(), srv.URL+"/big")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("expected body truncated to 100 bytes, got %d", len(body))
	}
}

func TestFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, "", 0)

	if _, err := f.Fetch(context.Background(), srv.URL+"/err"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestExtractText(t *testing.T) {
	rawHTML := `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
<body><h1>Title</h1><p>First paragraph.</p><p>Second paragraph.</p></body></html>`

	text := ExtractText(rawHTML)

	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Errorf("script/style leaked into text: %q", text)
	}
	for _, want := range []string{"Title", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestStripReferences(t *testing.T) {
	text := "Introduction text.\n\nMethods and results.\n\nReferences\n[1] Some citation.\n[2] Another citation."

	got := StripReferences(text)

	if strings.Contains(got, "citation") {
		t.Errorf("references not stripped: %q", got)
	}
	if !strings.Contains(got, "Methods and results.") {
		t.Errorf("body text lost: %q", got)
	}

	// Case-insensitive match
	got = StripReferences("Body.\n\nREFERENCES\nstuff")
	if strings.Contains(got, "stuff") {
		t.Errorf("uppercase references not stripped: %q", got)
	}

	// No references section leaves text intact
	plain := "Just a body with the word references inline."
	if got := StripReferences(plain); got != plain {
		t.Errorf("text without section changed: %q", got)
	}
}
