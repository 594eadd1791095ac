package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var itemColumns = []string{
	"qid", "player_name", "club_qid", "club_name", "start_date", "start_year",
	"era", "status", "attempts", "error_message", "created_at", "updated_at",
	"fetched_at",
}

// Add inserts a new pending work item. The QID must be unique within the ledger.
func (s *Store) Add(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if strings.TrimSpace(item.QID) == "" {
		return errors.New("item qid is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	if item.Status == "" {
		item.Status = StatusPending
	}
	if item.Era == "" {
		item.Era = EraForYear(item.StartYear)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO work_items (
            qid, player_name, club_qid, club_name, start_date, start_year,
            era, status, attempts, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.QID,
		item.PlayerName,
		item.ClubQID,
		item.ClubName,
		item.StartDate,
		item.StartYear,
		item.Era,
		item.Status,
		item.Attempts,
		nullableString(item.ErrorMessage),
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert work item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// GetByQID fetches a work item by identifier. Missing items return nil, nil.
func (s *Store) GetByQID(ctx context.Context, qid string) (*Item, error) {
	query := `SELECT ` + strings.Join(itemColumns, ", ") + ` FROM work_items WHERE qid = ?`
	row := s.db.QueryRowContext(ctx, query, qid)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get work item: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing work item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE work_items
         SET player_name = ?, club_qid = ?, club_name = ?, start_date = ?,
             start_year = ?, era = ?, status = ?, attempts = ?,
             error_message = ?, updated_at = ?, fetched_at = ?
         WHERE qid = ?`,
		item.PlayerName,
		item.ClubQID,
		item.ClubName,
		item.StartDate,
		item.StartYear,
		item.Era,
		item.Status,
		item.Attempts,
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(item.FetchedAt),
		item.QID,
	)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	return nil
}

// ListOptions filters the work items returned by List.
type ListOptions struct {
	Statuses []Status
	Era      string
	Limit    int
}

// List returns work items matching the options, ordered by creation time.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Item, error) {
	builder := sq.Select(itemColumns...).
		From("work_items").
		OrderBy("created_at", "qid")
	if len(opts.Statuses) > 0 {
		values := make([]string, len(opts.Statuses))
		for i, status := range opts.Statuses {
			values[i] = string(status)
		}
		builder = builder.Where(sq.Eq{"status": values})
	}
	if strings.TrimSpace(opts.Era) != "" {
		builder = builder.Where(sq.Eq{"era": opts.Era})
	}
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ResetInFlight returns items stuck in the fetching state back to pending.
// Called on startup so an interrupted run never strands in-flight items.
func (s *Store) ResetInFlight(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE work_items SET status = ?, updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusFetching,
	)
	if err != nil {
		return 0, fmt.Errorf("reset in-flight items: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed items back to pending for another fetch run.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE work_items
         SET status = ?, attempts = 0, error_message = NULL, updated_at = ?
         WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM work_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("work item stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summarize aggregates ledger state for progress reporting.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{}
	for status, count := range stats {
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending += count
		case StatusFetching:
			summary.Fetching += count
		case StatusFetched:
			summary.Fetched += count
		case StatusFailed:
			summary.Failed += count
		case StatusSkipped:
			summary.Skipped += count
		}
	}
	return summary, nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		qid          string
		playerName   string
		clubQID      string
		clubName     string
		startDate    string
		startYear    int
		era          string
		statusStr    string
		attempts     int
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
		fetchedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&qid,
		&playerName,
		&clubQID,
		&clubName,
		&startDate,
		&startYear,
		&era,
		&statusStr,
		&attempts,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&fetchedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		QID:          qid,
		PlayerName:   playerName,
		ClubQID:      clubQID,
		ClubName:     clubName,
		StartDate:    startDate,
		StartYear:    startYear,
		Era:          era,
		Status:       Status(statusStr),
		Attempts:     attempts,
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	if fetchedRaw.Valid {
		if fetched, err := parseTimeString(fetchedRaw.String); err == nil {
			item.FetchedAt = &fetched
		}
	}
	return item, nil
}
