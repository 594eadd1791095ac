// Package fetcher runs the overnight article fetch: it drains pending work
// items from the ledger through a worker pool, throttled so the combined
// request rate stays polite, and records every outcome durably so an
// interrupted run resumes where it stopped.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/logging"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/wikidata"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/wikipedia"
)

// LockFileName is the advisory lock guarding a fetch run.
const LockFileName = "fetch.lock"

// Options control a single fetch run.
type Options struct {
	Limit int
	Era   string
	// Force refetches items that already settled, including fetched and
	// skipped ones.
	Force bool
}

// Summary reports what a fetch run did.
type Summary struct {
	RunID    string
	Repaired int
	Fetched  int
	Skipped  int
	Failed   int
}

// Fetcher coordinates one fetch run over the ledger.
type Fetcher struct {
	cfg       *config.Config
	store     *registry.Store
	articles  *articles.Store
	wikipedia *wikipedia.Client
	wikidata  *wikidata.Client
	limiter   *Limiter
	logger    *slog.Logger
}

// New wires a fetcher from configuration and stores.
func New(cfg *config.Config, store *registry.Store, articleStore *articles.Store, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	delay := time.Duration(cfg.Wikipedia.RequestDelay * float64(time.Second))
	return &Fetcher{
		cfg:      cfg,
		store:    store,
		articles: articleStore,
		wikipedia: wikipedia.NewClient(wikipedia.Config{
			APIURL:      cfg.Wikipedia.APIURL,
			UserAgent:   cfg.Wikipedia.UserAgent,
			MaxRetries:  cfg.Wikipedia.MaxRetries,
			SearchLimit: cfg.Wikipedia.SearchResultLimit,
		}),
		wikidata: wikidata.NewClient(wikidata.Config{
			APIURL:    cfg.Wikidata.APIURL,
			UserAgent: cfg.Wikipedia.UserAgent,
		}),
		limiter: NewLimiter(delay),
		logger:  logging.WithComponent(logger, "fetcher"),
	}
}

// Run executes one fetch pass. Only one run may be active per data
// directory; a second invocation fails fast instead of queueing.
func (f *Fetcher) Run(ctx context.Context, opts Options) (Summary, error) {
	runID := uuid.NewString()
	summary := Summary{RunID: runID}
	ctx = services.WithRunID(services.WithStage(ctx, "fetch"), runID)
	logger := f.logger.With(logging.String(logging.FieldRunID, runID))

	lock := flock.New(filepath.Join(f.cfg.Paths.DataDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return summary, services.Wrap(services.ErrInvalidState, "fetch", "lock", "another fetch run is active", nil)
	}
	defer lock.Unlock()

	repaired, err := Repair(ctx, f.store, f.articles)
	if err != nil {
		return summary, err
	}
	summary.Repaired = repaired
	if repaired > 0 {
		logger.Info("repaired interrupted items", logging.Int("count", repaired))
	}

	statuses := []registry.Status{registry.StatusPending}
	if opts.Force {
		statuses = registry.AllStatuses()
	}
	items, err := f.store.List(ctx, registry.ListOptions{
		Statuses: statuses,
		Era:      opts.Era,
		Limit:    opts.Limit,
	})
	if err != nil {
		return summary, err
	}
	logger.Info("starting fetch run",
		logging.Int("pending", len(items)),
		logging.Int("workers", f.cfg.Fetch.Workers),
	)

	type outcome struct {
		status registry.Status
	}
	results := make(chan outcome, len(items))
	queue := make(chan *registry.Item)

	group, groupCtx := errgroup.WithContext(ctx)
	workers := f.cfg.Fetch.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			for item := range queue {
				status, err := f.fetchOne(groupCtx, logger, item)
				if err != nil {
					// Context cancellation is the only error that
					// stops the run; item failures are recorded on
					// the item itself.
					return err
				}
				results <- outcome{status: status}
			}
			return nil
		})
	}

	group.Go(func() error {
		defer close(queue)
		for _, item := range items {
			select {
			case queue <- item:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	runErr := group.Wait()
	close(results)
	for res := range results {
		switch res.status {
		case registry.StatusFetched:
			summary.Fetched++
		case registry.StatusSkipped:
			summary.Skipped++
		case registry.StatusFailed:
			summary.Failed++
		}
	}

	logger.Info("fetch run finished",
		logging.Int("fetched", summary.Fetched),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, runErr
}

// fetchOne processes a single work item and returns the status it settled
// on. The article file is written before the ledger commit so a crash
// between the two is repairable without refetching.
func (f *Fetcher) fetchOne(ctx context.Context, logger *slog.Logger, item *registry.Item) (registry.Status, error) {
	itemCtx := services.WithQID(ctx, item.QID)
	itemLogger := logger.With(logging.String(logging.FieldQID, item.QID))

	item.Status = registry.StatusFetching
	item.Attempts++
	if err := f.store.Update(itemCtx, item); err != nil {
		return "", err
	}

	if err := f.limiter.Wait(itemCtx); err != nil {
		return "", err
	}

	// Sitelink failures are not fatal: the title chain falls back to
	// name-based resolution, matching how special characters in names
	// were handled before sitelinks were consulted at all.
	sitelink, err := f.wikidata.Sitelink(itemCtx, item.QID)
	if err != nil {
		itemLogger.Warn("sitelink lookup failed", logging.Error(err))
		sitelink = ""
	}

	page, attempted, err := f.wikipedia.FindArticle(itemCtx, item.PlayerName, sitelink, f.cfg.Wikipedia.MinArticleLength)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		status := services.FailureStatus(err)
		item.Status = status
		item.ErrorMessage = err.Error()
		itemLogger.Warn("fetch failed", logging.Error(err))
		if updateErr := f.store.Update(itemCtx, item); updateErr != nil {
			return "", updateErr
		}
		return status, nil
	}
	if page == nil {
		item.SetSkipped("no acceptable article found")
		itemLogger.Info("article not found",
			logging.String(logging.FieldReason, "no acceptable article"),
			logging.Int("attempted_titles", len(attempted)),
		)
		if err := f.store.Update(itemCtx, item); err != nil {
			return "", err
		}
		return registry.StatusSkipped, nil
	}

	article := &articles.Article{
		QID:             item.QID,
		Title:           page.Title,
		URL:             page.URL,
		Extract:         page.Extract,
		LastRevision:    page.RevisionTime,
		AttemptedTitles: attempted,
		FetchedAt:       time.Now().UTC(),
	}
	if err := f.articles.Save(article); err != nil {
		return "", fmt.Errorf("persist article %s: %w", item.QID, err)
	}

	item.Status = registry.StatusFetched
	item.ErrorMessage = ""
	fetchedAt := article.FetchedAt
	item.FetchedAt = &fetchedAt
	if err := f.store.Update(itemCtx, item); err != nil {
		return "", err
	}
	itemLogger.Info("article fetched",
		logging.String("title", page.Title),
		logging.Int("extract_chars", len(page.Extract)),
	)
	return registry.StatusFetched, nil
}
