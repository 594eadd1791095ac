package quickstatements

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
)

// Wikidata property identifiers used in generated commands.
const (
	propMemberOfTeam = "P54"
	propEndTime      = "P582"
	refURL           = "S854"
	refRetrieved     = "S813"
)

// Generator renders commands. Now anchors the retrieved-date reference; the
// zero value uses the wall clock per call.
type Generator struct {
	Now time.Time
}

func (g Generator) now() time.Time {
	if g.Now.IsZero() {
		return time.Now().UTC()
	}
	return g.Now
}

// Line renders one command for an accepted correction:
//
//	Qplayer <tab> P54 <tab> Qteam <tab> P582 <tab> +date/precision
//
// followed by a source URL and retrieved-date reference when evidence is
// available. Only accepted verdicts may be rendered; anything else is an
// invalid-state error, so review outcomes can never leak into a batch.
func (g Generator) Line(item *registry.Item, correction *registry.Correction, verdict *registry.Verdict) (string, error) {
	if verdict == nil || verdict.Decision != registry.DecisionAccepted {
		decision := "none"
		if verdict != nil {
			decision = string(verdict.Decision)
		}
		return "", services.Wrap(services.ErrInvalidState, "quickstatements", "line", "verdict is "+decision, nil)
	}
	if strings.TrimSpace(item.QID) == "" || strings.TrimSpace(item.ClubQID) == "" {
		return "", services.Wrap(services.ErrValidation, "quickstatements", "line", "player and club QIDs required", nil)
	}

	date, _, err := FormatDate(correction.EndDate)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "quickstatements", "line", "end date", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s", item.QID, propMemberOfTeam, item.ClubQID, propEndTime, date)
	if url := strings.TrimSpace(correction.EvidenceURL); url != "" {
		retrieved := fmt.Sprintf("+%s/%d", g.now().UTC().Format("2006-01-02T00:00:00Z"), precisionDay)
		fmt.Fprintf(&b, "\t%s\t%q\t%s\t%s", refURL, url, refRetrieved, retrieved)
	}
	return b.String(), nil
}

// WriteBatch renders commands for every accepted correction, one per line.
// It returns how many commands were written. Corrections that cannot be
// rendered (no club QID, malformed date) are skipped and reported, not
// fatal: one bad row must not block a batch.
func (g Generator) WriteBatch(w io.Writer, pairs []*registry.Accepted, verdicts map[string]*registry.Verdict) (written int, skipped []string, err error) {
	for _, pair := range pairs {
		line, lineErr := g.Line(pair.Item, pair.Correction, verdicts[pair.Item.QID])
		if lineErr != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", pair.Item.QID, lineErr))
			continue
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return written, skipped, fmt.Errorf("write command: %w", err)
		}
		written++
	}
	return written, skipped, nil
}
