// Package quickstatements renders accepted corrections as QuickStatements
// v1 commands for https://quickstatements.toolforge.org/. Each command adds
// an end-time qualifier to an existing member-of-sports-team claim, with a
// reference back to the article the date came from.
package quickstatements

import (
	"fmt"
	"strings"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

// Wikidata time precisions.
const (
	precisionDay   = 11
	precisionMonth = 10
	precisionYear  = 9
)

// FormatDate renders a YYYY-MM-DD, YYYY-MM, or YYYY date in Wikidata time
// syntax with its precision suffix. Unknown calendar positions are zeroed,
// matching how QuickStatements expects partial dates.
func FormatDate(value string) (string, registry.Precision, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return fmt.Sprintf("+%s/%d", t.Format("2006-01-02T00:00:00Z"), precisionDay), registry.PrecisionDay, nil
	}
	if t, err := time.Parse("2006-01", value); err == nil {
		return fmt.Sprintf("+%s-00T00:00:00Z/%d", t.Format("2006-01"), precisionMonth), registry.PrecisionMonth, nil
	}
	if t, err := time.Parse("2006", value); err == nil {
		year := t.Year()
		if year < 1900 || year > 2100 {
			return "", "", fmt.Errorf("year %d out of range", year)
		}
		return fmt.Sprintf("+%04d-00-00T00:00:00Z/%d", year, precisionYear), registry.PrecisionYear, nil
	}
	return "", "", fmt.Errorf("cannot parse date %q", value)
}
