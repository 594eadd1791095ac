package registry

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ImportResult summarizes a stale-entries CSV import.
type ImportResult struct {
	Added      int
	Duplicates int
	Malformed  int
}

// ImportCSV loads a stale-entries record set into the ledger. The file must
// carry a header row naming at least player_qid and player_name; the
// remaining columns (team_qid, team_name, start_date, start_year, era) are
// optional. Rows whose QID already exists in the ledger are counted as
// duplicates and left untouched, so repeated imports are safe.
func (s *Store) ImportCSV(ctx context.Context, path string) (ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open stale entries: %w", err)
	}
	defer file.Close()
	return s.importRecords(ctx, csv.NewReader(file))
}

func (s *Store) importRecords(ctx context.Context, reader *csv.Reader) (ImportResult, error) {
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["player_qid"]; !ok {
		return ImportResult{}, errors.New("stale entries csv missing player_qid column")
	}
	if _, ok := columns["player_name"]; !ok {
		return ImportResult{}, errors.New("stale entries csv missing player_name column")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	seen := make(map[string]struct{})
	result := ImportResult{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Malformed++
			continue
		}

		qid := field(record, "player_qid")
		name := field(record, "player_name")
		if qid == "" || name == "" {
			result.Malformed++
			continue
		}
		// One work item per player: the article fetch is per player, so a
		// second stale club for the same QID does not create new work.
		if _, ok := seen[qid]; ok {
			result.Duplicates++
			continue
		}
		seen[qid] = struct{}{}

		existing, err := s.GetByQID(ctx, qid)
		if err != nil {
			return result, err
		}
		if existing != nil {
			result.Duplicates++
			continue
		}

		startYear, _ := strconv.Atoi(field(record, "start_year"))
		startDate := field(record, "start_date")
		if startYear == 0 && len(startDate) >= 4 {
			startYear, _ = strconv.Atoi(startDate[:4])
		}
		era := field(record, "era")
		if era == "" {
			era = EraForYear(startYear)
		}

		item := &Item{
			QID:        qid,
			PlayerName: name,
			ClubQID:    field(record, "team_qid"),
			ClubName:   field(record, "team_name"),
			StartDate:  startDate,
			StartYear:  startYear,
			Era:        era,
			Status:     StatusPending,
		}
		if err := s.Add(ctx, item); err != nil {
			return result, err
		}
		result.Added++
	}

	return result, nil
}
