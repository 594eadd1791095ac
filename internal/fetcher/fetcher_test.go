package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/fetcher"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/testsupport"
)

// fakeWiki serves a minimal slice of the query API: title fetches, search,
// and an optional hard-failure mode. It counts requests per player QID via
// the titles requested.
type fakeWiki struct {
	mu     sync.Mutex
	pages  map[string]string
	broken bool
	calls  int
	titles []string
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	q := r.URL.Query()
	f.titles = append(f.titles, q.Get("titles"))
	broken := f.broken
	pages := f.pages
	f.mu.Unlock()

	if broken {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if q.Get("list") == "search" {
		fmt.Fprint(w, `{"query":{"search":[]}}`)
		return
	}

	var rendered []string
	id := 100
	for _, title := range strings.Split(q.Get("titles"), "|") {
		if extract, ok := pages[title]; ok {
			rendered = append(rendered, fmt.Sprintf(
				`"%d":{"title":"%s","fullurl":"https://en.wikipedia.org/wiki/%s","extract":"%s","revisions":[{"timestamp":"2024-05-01T00:00:00Z"}]}`,
				id, title, strings.ReplaceAll(title, " ", "_"), extract))
			id++
		}
	}
	if len(rendered) == 0 {
		fmt.Fprint(w, `{"query":{"pages":{"-1":{"missing":""}}}}`)
		return
	}
	fmt.Fprintf(w, `{"query":{"pages":{%s}}}`, strings.Join(rendered, ","))
}

func (f *fakeWiki) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeWikidata maps QIDs to enwiki sitelink titles.
type fakeWikidata struct {
	mu        sync.Mutex
	sitelinks map[string]string
	calls     map[string]int
}

func (f *fakeWikidata) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	qid := r.URL.Query().Get("ids")
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[qid]++
	title, ok := f.sitelinks[qid]
	f.mu.Unlock()

	if !ok {
		fmt.Fprintf(w, `{"entities":{"%s":{"sitelinks":{}}}}`, qid)
		return
	}
	fmt.Fprintf(w, `{"entities":{"%s":{"sitelinks":{"enwiki":{"title":"%s"}}}}}`, qid, title)
}

func (f *fakeWikidata) callCount(qid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[qid]
}

const longExtract = "A professional footballer with a long and well documented career across several clubs and seasons in multiple countries."

func newFetchEnv(t *testing.T, wiki *fakeWiki, wd *fakeWikidata) (*fetcher.Fetcher, *registry.Store, *articles.Store) {
	t.Helper()
	wikiServer := httptest.NewServer(wiki)
	t.Cleanup(wikiServer.Close)
	wdServer := httptest.NewServer(wd)
	t.Cleanup(wdServer.Close)

	cfg := testsupport.NewConfig(t,
		testsupport.WithWikipediaURL(wikiServer.URL),
		testsupport.WithWikidataURL(wdServer.URL),
		testsupport.WithWorkers(2),
	)
	store := testsupport.MustOpenStore(t, cfg)
	articleStore, err := articles.NewStore(cfg.Paths.ArticlesDir)
	if err != nil {
		t.Fatalf("articles.NewStore: %v", err)
	}
	return fetcher.New(cfg, store, articleStore, nil), store, articleStore
}

func TestRunFetchesPendingItems(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{
		"Eden Hazard": longExtract,
		"Petr Cech":   longExtract,
	}}
	wd := &fakeWikidata{sitelinks: map[string]string{
		"Q1": "Eden Hazard",
		"Q2": "Petr Cech",
	}}
	f, store, articleStore := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Eden Hazard", "Chelsea FC", "2012-07-01")
	testsupport.AddItem(t, store, "Q2", "Petr Cech", "Chelsea FC", "2004-07-01")

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Fetched != 2 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}

	for _, qid := range []string{"Q1", "Q2"} {
		item, err := store.GetByQID(ctx, qid)
		if err != nil {
			t.Fatalf("GetByQID failed: %v", err)
		}
		if item.Status != registry.StatusFetched || item.FetchedAt == nil {
			t.Fatalf("unexpected item state: %#v", item)
		}
		if !articleStore.Has(qid) {
			t.Fatalf("expected persisted article for %s", qid)
		}
	}

	article, err := articleStore.Load("Q1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if article.Title != "Eden Hazard" || article.Extract != longExtract {
		t.Fatalf("unexpected article: %#v", article)
	}
	if len(article.AttemptedTitles) == 0 {
		t.Fatal("expected attempted titles recorded on the article")
	}
}

func TestRunSkipsMissingArticles(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{}}
	wd := &fakeWikidata{}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Ghost Player", "Club", "2015-01-01")

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	item, err := store.GetByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if item.Status != registry.StatusSkipped || item.ErrorMessage == "" {
		t.Fatalf("unexpected item state: %#v", item)
	}
	if item.Attempts != 1 {
		t.Fatalf("expected one attempt, got %d", item.Attempts)
	}
}

func TestRunRecordsTransientFailure(t *testing.T) {
	wiki := &fakeWiki{broken: true}
	wd := &fakeWikidata{}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Some Player", "Club", "2015-01-01")

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	item, err := store.GetByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if item.Status != registry.StatusFailed || item.ErrorMessage == "" {
		t.Fatalf("unexpected item state: %#v", item)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{"Eden Hazard": longExtract}}
	wd := &fakeWikidata{sitelinks: map[string]string{"Q1": "Eden Hazard"}}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Eden Hazard", "Chelsea FC", "2012-07-01")

	if _, err := f.Run(ctx, fetcher.Options{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	callsAfterFirst := wiki.requestCount()

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Fetched != 0 || summary.Repaired != 0 {
		t.Fatalf("expected nothing to do on second run, got %#v", summary)
	}
	if wiki.requestCount() != callsAfterFirst {
		t.Fatal("second run must not refetch terminal items")
	}
}

func TestRunForceRefetchesSettledItems(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{"Eden Hazard": longExtract}}
	wd := &fakeWikidata{sitelinks: map[string]string{"Q1": "Eden Hazard"}}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Eden Hazard", "Chelsea FC", "2012-07-01")

	if _, err := f.Run(ctx, fetcher.Options{}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	callsAfterFirst := wiki.requestCount()

	summary, err := f.Run(ctx, fetcher.Options{Force: true})
	if err != nil {
		t.Fatalf("forced run failed: %v", err)
	}
	if summary.Fetched != 1 {
		t.Fatalf("expected forced refetch, got %#v", summary)
	}
	if wiki.requestCount() <= callsAfterFirst {
		t.Fatal("forced run must hit the network again")
	}

	item, err := store.GetByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if item.Attempts != 2 {
		t.Fatalf("expected two attempts, got %d", item.Attempts)
	}
}

func TestRunRepairsInterruptedItemWithoutRefetch(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{}}
	wd := &fakeWikidata{}
	f, store, articleStore := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q1", "Eden Hazard", "Chelsea FC", "2012-07-01")

	// Simulate a crash after the article write but before the ledger
	// commit: the article exists, the item is still marked fetching.
	if err := articleStore.Save(&articles.Article{QID: "Q1", Title: "Eden Hazard", Extract: longExtract}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	item.Status = registry.StatusFetching
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Repaired != 1 {
		t.Fatalf("expected one repaired item, got %#v", summary)
	}
	if wiki.requestCount() != 0 || wd.callCount("Q1") != 0 {
		t.Fatal("repair must not touch the network")
	}

	repaired, err := store.GetByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if repaired.Status != registry.StatusFetched || repaired.FetchedAt == nil {
		t.Fatalf("unexpected item state after repair: %#v", repaired)
	}
}

func TestRunResetsStrandedFetchingItem(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{"Eden Hazard": longExtract}}
	wd := &fakeWikidata{sitelinks: map[string]string{"Q1": "Eden Hazard"}}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q1", "Eden Hazard", "Chelsea FC", "2012-07-01")
	item.Status = registry.StatusFetching
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	summary, err := f.Run(ctx, fetcher.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Fetched != 1 {
		t.Fatalf("expected stranded item to be refetched, got %#v", summary)
	}
}

func TestRunRespectsLimitAndEra(t *testing.T) {
	wiki := &fakeWiki{pages: map[string]string{
		"Player One": longExtract,
		"Player Two": longExtract,
	}}
	wd := &fakeWikidata{sitelinks: map[string]string{
		"Q1": "Player One",
		"Q2": "Player Two",
	}}
	f, store, _ := newFetchEnv(t, wiki, wd)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Player One", "Club", "2019-01-01")
	testsupport.AddItem(t, store, "Q2", "Player Two", "Club", "2019-01-01")
	testsupport.AddItem(t, store, "Q3", "Old Player", "Club", "1995-01-01")

	summary, err := f.Run(ctx, fetcher.Options{Limit: 1, Era: "2018-2021"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Fetched != 1 {
		t.Fatalf("expected exactly one fetch, got %#v", summary)
	}

	old, err := store.GetByQID(ctx, "Q3")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if old.Status != registry.StatusPending {
		t.Fatalf("era filter must leave other eras untouched: %#v", old)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	wiki := &fakeWiki{}
	wd := &fakeWikidata{}
	f, store, _ := newFetchEnv(t, wiki, wd)

	lock := flock.New(filepath.Join(filepath.Dir(store.Path()), fetcher.LockFileName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take lock for test: %v %v", locked, err)
	}
	defer lock.Unlock()

	_, err = f.Run(context.Background(), fetcher.Options{})
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid-state error while locked, got %v", err)
	}
}
