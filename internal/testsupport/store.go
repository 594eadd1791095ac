package testsupport

import (
	"context"
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

// MustOpenStore opens a registry.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddItem inserts a pending work item for tests using the provided store.
func AddItem(t testing.TB, store *registry.Store, qid, playerName, clubName, startDate string) *registry.Item {
	t.Helper()

	startYear := 0
	if len(startDate) >= 4 {
		for _, r := range startDate[:4] {
			if r < '0' || r > '9' {
				startYear = 0
				break
			}
			startYear = startYear*10 + int(r-'0')
		}
	}
	item := &registry.Item{
		QID:        qid,
		PlayerName: playerName,
		ClubName:   clubName,
		StartDate:  startDate,
		StartYear:  startYear,
	}
	if err := store.Add(context.Background(), item); err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return item
}
