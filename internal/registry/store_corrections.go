package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SaveCorrection records a candidate correction, replacing any previous
// candidate for the same QID. A correction requires an existing work item.
// Any verdict recorded for the previous candidate is discarded so the new
// candidate gets validated afresh.
func (s *Store) SaveCorrection(ctx context.Context, correction *Correction) error {
	if correction == nil {
		return errors.New("correction is nil")
	}
	if strings.TrimSpace(correction.QID) == "" {
		return errors.New("correction qid is required")
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO corrections (qid, club_name, end_date, precision, evidence_snippet, evidence_url, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(qid) DO UPDATE SET
             club_name = excluded.club_name,
             end_date = excluded.end_date,
             precision = excluded.precision,
             evidence_snippet = excluded.evidence_snippet,
             evidence_url = excluded.evidence_url,
             created_at = excluded.created_at`,
		correction.QID,
		correction.ClubName,
		correction.EndDate,
		string(correction.Precision),
		correction.EvidenceSnippet,
		correction.EvidenceURL,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save correction: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM verdicts WHERE qid = ?", correction.QID); err != nil {
		return fmt.Errorf("clear stale verdict: %w", err)
	}
	correction.CreatedAt = now
	return nil
}

// CorrectionByQID fetches the candidate correction for a work item, or nil.
func (s *Store) CorrectionByQID(ctx context.Context, qid string) (*Correction, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT qid, club_name, end_date, precision, evidence_snippet, evidence_url, created_at
         FROM corrections WHERE qid = ?`,
		qid,
	)
	correction, err := scanCorrection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get correction: %w", err)
	}
	return correction, nil
}

// ListCorrections returns all candidate corrections ordered by QID.
func (s *Store) ListCorrections(ctx context.Context) ([]*Correction, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT qid, club_name, end_date, precision, evidence_snippet, evidence_url, created_at
         FROM corrections ORDER BY qid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()

	var corrections []*Correction
	for rows.Next() {
		correction, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		corrections = append(corrections, correction)
	}
	return corrections, rows.Err()
}

// UnvalidatedCorrections returns corrections without a recorded verdict.
func (s *Store) UnvalidatedCorrections(ctx context.Context) ([]*Correction, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT c.qid, c.club_name, c.end_date, c.precision, c.evidence_snippet, c.evidence_url, c.created_at
         FROM corrections c LEFT JOIN verdicts v ON v.qid = c.qid
         WHERE v.qid IS NULL ORDER BY c.qid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list unvalidated corrections: %w", err)
	}
	defer rows.Close()

	var corrections []*Correction
	for rows.Next() {
		correction, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		corrections = append(corrections, correction)
	}
	return corrections, rows.Err()
}

// SaveVerdict records the validator's decision for a correction, replacing
// any previous verdict for the same QID.
func (s *Store) SaveVerdict(ctx context.Context, verdict *Verdict) error {
	if verdict == nil {
		return errors.New("verdict is nil")
	}
	if strings.TrimSpace(verdict.QID) == "" {
		return errors.New("verdict qid is required")
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO verdicts (qid, decision, reason_code, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(qid) DO UPDATE SET
             decision = excluded.decision,
             reason_code = excluded.reason_code,
             created_at = excluded.created_at`,
		verdict.QID,
		string(verdict.Decision),
		verdict.ReasonCode,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save verdict: %w", err)
	}
	verdict.CreatedAt = now
	return nil
}

// VerdictByQID fetches the verdict for a work item, or nil.
func (s *Store) VerdictByQID(ctx context.Context, qid string) (*Verdict, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT qid, decision, reason_code, created_at FROM verdicts WHERE qid = ?`,
		qid,
	)
	verdict, err := scanVerdict(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get verdict: %w", err)
	}
	return verdict, nil
}

// VerdictStats returns a count of verdicts grouped by decision.
func (s *Store) VerdictStats(ctx context.Context) (map[Decision]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT decision, COUNT(1) FROM verdicts GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("verdict stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Decision]int)
	for rows.Next() {
		var decision Decision
		var count int
		if err := rows.Scan(&decision, &count); err != nil {
			return nil, err
		}
		stats[decision] = count
	}
	return stats, rows.Err()
}

// AcceptedCorrections returns corrections whose verdict is accepted, paired
// with their work items, ordered by QID. Command generation consumes this.
func (s *Store) AcceptedCorrections(ctx context.Context) ([]*Accepted, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT w.qid, w.player_name, w.club_qid, w.club_name, w.start_date, w.start_year,
                w.era, w.status, w.attempts, w.error_message, w.created_at, w.updated_at, w.fetched_at,
                c.qid, c.club_name, c.end_date, c.precision, c.evidence_snippet, c.evidence_url, c.created_at
         FROM verdicts v
         JOIN corrections c ON c.qid = v.qid
         JOIN work_items w ON w.qid = v.qid
         WHERE v.decision = ?
         ORDER BY w.qid`,
		string(DecisionAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("list accepted corrections: %w", err)
	}
	defer rows.Close()

	var accepted []*Accepted
	for rows.Next() {
		pair, err := scanAccepted(rows)
		if err != nil {
			return nil, err
		}
		accepted = append(accepted, pair)
	}
	return accepted, rows.Err()
}

// Accepted pairs an accepted correction with its originating work item.
type Accepted struct {
	Item       *Item
	Correction *Correction
}

func scanCorrection(scanner interface{ Scan(dest ...any) error }) (*Correction, error) {
	var (
		qid        string
		clubName   string
		endDate    string
		precision  string
		snippet    string
		url        string
		createdRaw string
	)
	if err := scanner.Scan(&qid, &clubName, &endDate, &precision, &snippet, &url, &createdRaw); err != nil {
		return nil, err
	}
	correction := &Correction{
		QID:             qid,
		ClubName:        clubName,
		EndDate:         endDate,
		Precision:       Precision(precision),
		EvidenceSnippet: snippet,
		EvidenceURL:     url,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		correction.CreatedAt = created
	}
	return correction, nil
}

func scanVerdict(scanner interface{ Scan(dest ...any) error }) (*Verdict, error) {
	var (
		qid        string
		decision   string
		reasonCode string
		createdRaw string
	)
	if err := scanner.Scan(&qid, &decision, &reasonCode, &createdRaw); err != nil {
		return nil, err
	}
	verdict := &Verdict{
		QID:        qid,
		Decision:   Decision(decision),
		ReasonCode: reasonCode,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		verdict.CreatedAt = created
	}
	return verdict, nil
}

func scanAccepted(scanner interface{ Scan(dest ...any) error }) (*Accepted, error) {
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

		cQID       string
		cClubName  string
		cEndDate   string
		cPrecision string
		cSnippet   string
		cURL       string
		cCreated   string
	)
	if err := scanner.Scan(
		&qid, &playerName, &clubQID, &clubName, &startDate, &startYear,
		&era, &statusStr, &attempts, &errorMessage, &createdRaw, &updatedRaw, &fetchedRaw,
		&cQID, &cClubName, &cEndDate, &cPrecision, &cSnippet, &cURL, &cCreated,
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

	correction := &Correction{
		QID:             cQID,
		ClubName:        cClubName,
		EndDate:         cEndDate,
		Precision:       Precision(cPrecision),
		EvidenceSnippet: cSnippet,
		EvidenceURL:     cURL,
	}
	if created, err := parseTimeString(cCreated); err == nil {
		correction.CreatedAt = created
	}

	return &Accepted{Item: item, Correction: correction}, nil
}
