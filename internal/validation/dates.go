package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

// Period is the time span a partial date covers: "2018" covers the whole
// year, "2018-06" the whole month. Comparisons against a partial date must
// pick the bound that cannot produce a false rejection.
type Period struct {
	Start     time.Time
	End       time.Time
	Precision registry.Precision
}

// ParsePeriod parses YYYY-MM-DD, YYYY-MM, or YYYY into its covered span.
func ParsePeriod(value string) (Period, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return Period{Start: t, End: t, Precision: registry.PrecisionDay}, nil
	}
	if t, err := time.Parse("2006-01", value); err == nil {
		return Period{
			Start:     t,
			End:       t.AddDate(0, 1, -1),
			Precision: registry.PrecisionMonth,
		}, nil
	}
	if t, err := time.Parse("2006", value); err == nil {
		if t.Year() < 1900 || t.Year() > 2100 {
			return Period{}, fmt.Errorf("year %d out of range", t.Year())
		}
		return Period{
			Start:     t,
			End:       t.AddDate(1, 0, -1),
			Precision: registry.PrecisionYear,
		}, nil
	}
	return Period{}, fmt.Errorf("unparseable date %q", value)
}

// startBound returns the earliest instant the item's recorded start date
// could refer to. Items with no usable start date return a zero time, which
// disables the ordering check rather than rejecting valid corrections.
func startBound(item *registry.Item) time.Time {
	if period, err := ParsePeriod(item.StartDate); err == nil {
		return period.Start
	}
	if item.StartYear > 0 {
		return time.Date(item.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
