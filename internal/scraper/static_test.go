package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticFetcher_FetchesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>directory</body></html>"))
	}))
	defer srv.Close()

	f := NewStaticFetcher(FetcherConfig{})
	defer f.Close()

	content, err := f.Fetch(context.Background(), srv.URL, DefaultFetchOptions())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if content.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", content.StatusCode)
	}
	if !strings.Contains(content.HTML, "directory") {
		t.Errorf("expected body in HTML, got %q", content.HTML)
	}
	if content.URL != srv.URL {
		t.Errorf("expected URL %q, got %q", srv.URL, content.URL)
	}
}

func TestStaticFetcher_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewStaticFetcher(FetcherConfig{})
	defer f.Close()

	_, err := f.Fetch(context.Background(), srv.URL, DefaultFetchOptions())
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestStaticFetcher_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	f := NewStaticFetcher(FetcherConfig{UserAgent: "herddir-test/1.0"})
	defer f.Close()

	if _, err := f.Fetch(context.Background(), srv.URL, FetchOptions{}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotUA != "herddir-test/1.0" {
		t.Errorf("expected configured user agent, got %q", gotUA)
	}
}
