package registry

import (
	"strings"
	"time"
)

// Status represents the fetch lifecycle of a work item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFetching Status = "fetching"
	StatusFetched  Status = "fetched"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusFailed,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status will never change without operator action.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFetched, StatusSkipped:
		return true
	default:
		return false
	}
}

// Item is one stale player-club association awaiting a departure date.
type Item struct {
	QID          string
	PlayerName   string
	ClubQID      string
	ClubName     string
	StartDate    string
	StartYear    int
	Era          string
	Status       Status
	Attempts     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	FetchedAt    *time.Time
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// SetSkipped marks the item as skipped with the reason it cannot be fetched.
func (i *Item) SetSkipped(reason string) {
	i.Status = StatusSkipped
	i.ErrorMessage = reason
}

// Precision is the granularity of a date value as supported by Wikidata.
type Precision string

const (
	PrecisionDay   Precision = "day"
	PrecisionMonth Precision = "month"
	PrecisionYear  Precision = "year"
)

// ParsePrecision converts a string into a known Precision. The empty string
// is valid and means the extraction stage could not determine one.
func ParsePrecision(value string) (Precision, bool) {
	normalized := Precision(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "", PrecisionDay, PrecisionMonth, PrecisionYear:
		return normalized, true
	default:
		return "", false
	}
}

// Correction is a candidate departure date produced by the extraction stage.
type Correction struct {
	QID             string
	ClubName        string
	EndDate         string
	Precision       Precision
	EvidenceSnippet string
	EvidenceURL     string
	CreatedAt       time.Time
}

// Decision partitions validated corrections.
type Decision string

const (
	DecisionAccepted      Decision = "accepted"
	DecisionRejected      Decision = "rejected"
	DecisionNeedsResearch Decision = "needs_research"
)

// Verdict is the validator's ruling on a single correction.
type Verdict struct {
	QID        string
	Decision   Decision
	ReasonCode string
	CreatedAt  time.Time
}

// Summary aggregates work-item counts per lifecycle state for progress
// reporting. It is derived from the status column alone.
type Summary struct {
	Total    int
	Pending  int
	Fetching int
	Fetched  int
	Failed   int
	Skipped  int
}

// EraForYear buckets a start year into the era labels used for batch
// filtering.
func EraForYear(year int) string {
	switch {
	case year <= 0:
		return "unknown"
	case year < 2000:
		return "pre-2000"
	case year <= 2005:
		return "2000-2005"
	case year <= 2010:
		return "2006-2010"
	case year <= 2015:
		return "2011-2015"
	case year <= 2017:
		return "2016-2017"
	case year <= 2021:
		return "2018-2021"
	default:
		return "2022+"
	}
}
