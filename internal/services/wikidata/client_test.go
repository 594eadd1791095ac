package wikidata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/wikidata"
)

func TestSitelinkReturnsTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "Q1" {
			t.Errorf("unexpected ids param %q", got)
		}
		if got := r.URL.Query().Get("sitefilter"); got != "enwiki" {
			t.Errorf("unexpected sitefilter %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entities":{"Q1":{"sitelinks":{"enwiki":{"title":"Eden Hazard"}}}}}`))
	}))
	defer server.Close()

	client := wikidata.NewClient(wikidata.Config{APIURL: server.URL, UserAgent: "test-agent"})
	title, err := client.Sitelink(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("Sitelink failed: %v", err)
	}
	if title != "Eden Hazard" {
		t.Fatalf("unexpected title %q", title)
	}
}

func TestSitelinkMissingLinkReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entities":{"Q2":{"sitelinks":{}}}}`))
	}))
	defer server.Close()

	client := wikidata.NewClient(wikidata.Config{APIURL: server.URL})
	title, err := client.Sitelink(context.Background(), "Q2")
	if err != nil {
		t.Fatalf("Sitelink failed: %v", err)
	}
	if title != "" {
		t.Fatalf("expected empty title for missing sitelink, got %q", title)
	}
}

func TestSitelinkMissingEntityIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":{"code":"no-such-entity","info":"Could not find an entity"}}`))
	}))
	defer server.Close()

	client := wikidata.NewClient(wikidata.Config{APIURL: server.URL})
	if _, err := client.Sitelink(context.Background(), "Q999"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSitelinkServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := wikidata.NewClient(wikidata.Config{APIURL: server.URL})
	if _, err := client.Sitelink(context.Background(), "Q1"); !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestSitelinkRequiresQID(t *testing.T) {
	client := wikidata.NewClient(wikidata.Config{})
	if _, err := client.Sitelink(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
