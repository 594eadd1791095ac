package registry_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q100", "Eden Hazard", "Chelsea FC", "2012-07-01")
	if item.Status != registry.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if item.Era != "2011-2015" {
		t.Fatalf("expected era 2011-2015, got %q", item.Era)
	}

	fetched, err := store.GetByQID(ctx, "Q100")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if fetched == nil || fetched.PlayerName != "Eden Hazard" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
}

func TestAddRejectsEmptyQID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	err := store.Add(context.Background(), &registry.Item{PlayerName: "No QID"})
	if err == nil {
		t.Fatal("expected error when qid missing")
	}
}

func TestAddRejectsDuplicateQID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.AddItem(t, store, "Q7", "First", "Club A", "2015-01-01")
	err := store.Add(context.Background(), &registry.Item{QID: "Q7", PlayerName: "Second"})
	if err == nil {
		t.Fatal("expected unique constraint violation for duplicate qid")
	}
}

func TestUpdatePersistsStatusTransition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q200", "Player", "Club", "2016-02-01")
	item.Status = registry.StatusSkipped
	item.ErrorMessage = "article not found"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := store.GetByQID(ctx, "Q200")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if updated.Status != registry.StatusSkipped {
		t.Fatalf("expected skipped, got %s", updated.Status)
	}
	if updated.ErrorMessage != "article not found" {
		t.Fatalf("unexpected error message %q", updated.ErrorMessage)
	}
}

func TestListFiltersByStatusAndEra(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		testsupport.AddItem(t, store, fmt.Sprintf("Q%d", i+1), fmt.Sprintf("Player %d", i+1), "Club", "2019-01-01")
	}
	old := testsupport.AddItem(t, store, "Q99", "Veteran", "Club", "1998-01-01")
	old.Status = registry.StatusFetched
	if err := store.Update(ctx, old); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	pending, err := store.List(ctx, registry.ListOptions{Statuses: []registry.Status{registry.StatusPending}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending items, got %d", len(pending))
	}

	preMillennium, err := store.List(ctx, registry.ListOptions{Era: "pre-2000"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(preMillennium) != 1 || preMillennium[0].QID != "Q99" {
		t.Fatalf("unexpected era filter result: %#v", preMillennium)
	}

	limited, err := store.List(ctx, registry.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(limited))
	}
}

func TestResetInFlight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q300", "Player", "Club", "2018-08-01")
	item.Status = registry.StatusFetching
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.ResetInFlight(ctx)
	if err != nil {
		t.Fatalf("ResetInFlight failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item reset, got %d", count)
	}

	updated, err := store.GetByQID(ctx, "Q300")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if updated.Status != registry.StatusPending {
		t.Fatalf("expected pending after reset, got %s", updated.Status)
	}
}

func TestRetryFailedClearsAttempts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.AddItem(t, store, "Q400", "Player", "Club", "2017-01-01")
	item.Status = registry.StatusFailed
	item.Attempts = 3
	item.ErrorMessage = "timeout"
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item retried, got %d", count)
	}

	updated, err := store.GetByQID(ctx, "Q400")
	if err != nil {
		t.Fatalf("GetByQID failed: %v", err)
	}
	if updated.Status != registry.StatusPending || updated.Attempts != 0 || updated.ErrorMessage != "" {
		t.Fatalf("expected clean pending item, got %#v", updated)
	}
}

func TestSummarizeCountsByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	statuses := []registry.Status{
		registry.StatusPending,
		registry.StatusFetched,
		registry.StatusFetched,
		registry.StatusFailed,
		registry.StatusSkipped,
	}
	for i, status := range statuses {
		item := testsupport.AddItem(t, store, fmt.Sprintf("Q%d", i+1), "Player", "Club", "2019-01-01")
		if status != registry.StatusPending {
			item.Status = status
			if err := store.Update(ctx, item); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
		}
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	want := registry.Summary{Total: 5, Pending: 1, Fetched: 2, Failed: 1, Skipped: 1}
	if summary != want {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestCorrectionAndVerdictRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Player", "Chelsea FC", "2015-01-01")

	correction := &registry.Correction{
		QID:             "Q1",
		ClubName:        "Chelsea",
		EndDate:         "2018",
		Precision:       registry.PrecisionYear,
		EvidenceSnippet: "left Chelsea in 2018",
		EvidenceURL:     "https://en.wikipedia.org/wiki/Example",
	}
	if err := store.SaveCorrection(ctx, correction); err != nil {
		t.Fatalf("SaveCorrection failed: %v", err)
	}

	unvalidated, err := store.UnvalidatedCorrections(ctx)
	if err != nil {
		t.Fatalf("UnvalidatedCorrections failed: %v", err)
	}
	if len(unvalidated) != 1 || unvalidated[0].QID != "Q1" {
		t.Fatalf("expected one unvalidated correction, got %#v", unvalidated)
	}

	verdict := &registry.Verdict{QID: "Q1", Decision: registry.DecisionAccepted, ReasonCode: "ok"}
	if err := store.SaveVerdict(ctx, verdict); err != nil {
		t.Fatalf("SaveVerdict failed: %v", err)
	}

	unvalidated, err = store.UnvalidatedCorrections(ctx)
	if err != nil {
		t.Fatalf("UnvalidatedCorrections failed: %v", err)
	}
	if len(unvalidated) != 0 {
		t.Fatalf("expected no unvalidated corrections after verdict, got %d", len(unvalidated))
	}

	accepted, err := store.AcceptedCorrections(ctx)
	if err != nil {
		t.Fatalf("AcceptedCorrections failed: %v", err)
	}
	if len(accepted) != 1 {
		t.Fatalf("expected one accepted correction, got %d", len(accepted))
	}
	if accepted[0].Item.ClubName != "Chelsea FC" || accepted[0].Correction.EndDate != "2018" {
		t.Fatalf("unexpected accepted pair: %#v / %#v", accepted[0].Item, accepted[0].Correction)
	}
}

func TestSaveCorrectionReplacesPrevious(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.AddItem(t, store, "Q1", "Player", "Club", "2015-01-01")

	first := &registry.Correction{QID: "Q1", ClubName: "Club", EndDate: "2017"}
	if err := store.SaveCorrection(ctx, first); err != nil {
		t.Fatalf("SaveCorrection failed: %v", err)
	}
	if err := store.SaveVerdict(ctx, &registry.Verdict{QID: "Q1", Decision: registry.DecisionAccepted, ReasonCode: "ok"}); err != nil {
		t.Fatalf("SaveVerdict failed: %v", err)
	}

	second := &registry.Correction{QID: "Q1", ClubName: "Club", EndDate: "2018-06", Precision: registry.PrecisionMonth}
	if err := store.SaveCorrection(ctx, second); err != nil {
		t.Fatalf("SaveCorrection (replace) failed: %v", err)
	}

	stored, err := store.CorrectionByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("CorrectionByQID failed: %v", err)
	}
	if stored.EndDate != "2018-06" || stored.Precision != registry.PrecisionMonth {
		t.Fatalf("expected replacement to win, got %#v", stored)
	}

	// The verdict belonged to the replaced candidate and must not survive.
	verdict, err := store.VerdictByQID(ctx, "Q1")
	if err != nil {
		t.Fatalf("VerdictByQID failed: %v", err)
	}
	if verdict != nil {
		t.Fatalf("expected stale verdict to be cleared, got %#v", verdict)
	}
}
