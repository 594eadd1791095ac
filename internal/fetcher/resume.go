package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

// Repair reconciles ledger state with the article directory before a run.
// An article file is written before the ledger commit, so a crash between
// the two leaves a non-terminal item whose article already exists; those
// items are promoted to fetched without touching the network. Items stuck
// in fetching with no article go back to pending.
func Repair(ctx context.Context, store *registry.Store, articleStore *articles.Store) (repaired int, err error) {
	items, err := store.List(ctx, registry.ListOptions{
		Statuses: []registry.Status{registry.StatusPending, registry.StatusFetching, registry.StatusFailed},
	})
	if err != nil {
		return 0, fmt.Errorf("repair: list items: %w", err)
	}

	for _, item := range items {
		if !articleStore.Has(item.QID) {
			continue
		}
		article, err := articleStore.Load(item.QID)
		if err != nil {
			return repaired, fmt.Errorf("repair: load article %s: %w", item.QID, err)
		}
		item.Status = registry.StatusFetched
		item.ErrorMessage = ""
		fetchedAt := article.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}
		item.FetchedAt = &fetchedAt
		if err := store.Update(ctx, item); err != nil {
			return repaired, fmt.Errorf("repair: update item %s: %w", item.QID, err)
		}
		repaired++
	}

	if _, err := store.ResetInFlight(ctx); err != nil {
		return repaired, err
	}
	return repaired, nil
}
