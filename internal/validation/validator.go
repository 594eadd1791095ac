package validation

import (
	"strings"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
)

// Reason codes carried on verdicts. Stable strings: review tooling and
// operators filter on them.
const (
	ReasonOK               = "ok"
	ReasonClubMismatch     = "club_mismatch"
	ReasonMissingEndDate   = "missing_end_date"
	ReasonDateInvalid      = "date_invalid"
	ReasonMissingPrecision = "missing_precision"
	ReasonNoEvidence       = "no_evidence"
	ReasonStillCurrent     = "still_current"
)

// Built-in phrases in evidence text that suggest the tenure is ongoing.
var defaultCurrentMarkers = []string{
	"currently plays",
	"current club",
	"still plays",
	"present",
	"to date",
}

// Options configure a Validator.
type Options struct {
	Aliases        *AliasTable
	CurrentMarkers []string
	// Now anchors the future-date check; the zero value means wall clock.
	Now time.Time
}

// Validator applies the rule chain to corrections. It is safe for
// concurrent use.
type Validator struct {
	aliases        *AliasTable
	currentMarkers []string
	now            func() time.Time
}

// New builds a validator. A nil alias table disables alias resolution.
func New(opts Options) *Validator {
	v := &Validator{
		aliases:        opts.Aliases,
		currentMarkers: append(append([]string(nil), defaultCurrentMarkers...), opts.CurrentMarkers...),
	}
	if opts.Now.IsZero() {
		v.now = func() time.Time { return time.Now().UTC() }
	} else {
		now := opts.Now
		v.now = func() time.Time { return now }
	}
	return v
}

// Validate rules on a single correction. Rules run in a fixed order and the
// first violation decides the verdict:
//
//  1. a correction naming a different club than the stale entry (after
//     normalization and alias resolution) is rejected
//  2. an empty or unparseable end date is rejected, as is a declared
//     precision that disagrees with the date shape
//  3. an end date at or before the recorded start is rejected: the period
//     END is compared, so a year-precision date in the joining year passes
//     only if it could still fall after the start; an end date whose period
//     starts after run time is rejected the same way
//  4. absent precision, missing evidence, or evidence suggesting the tenure
//     is ongoing needs research
//
// Everything else is accepted.
func (v *Validator) Validate(item *registry.Item, correction *registry.Correction) registry.Verdict {
	verdict := registry.Verdict{QID: item.QID}

	if strings.TrimSpace(correction.ClubName) != "" && strings.TrimSpace(item.ClubName) != "" {
		if !ClubsMatch(correction.ClubName, item.ClubName, v.aliases) {
			verdict.Decision = registry.DecisionRejected
			verdict.ReasonCode = ReasonClubMismatch
			return verdict
		}
	}

	if strings.TrimSpace(correction.EndDate) == "" {
		verdict.Decision = registry.DecisionRejected
		verdict.ReasonCode = ReasonMissingEndDate
		return verdict
	}
	period, err := ParsePeriod(correction.EndDate)
	if err != nil {
		verdict.Decision = registry.DecisionRejected
		verdict.ReasonCode = ReasonDateInvalid
		return verdict
	}
	if correction.Precision != "" && correction.Precision != period.Precision {
		verdict.Decision = registry.DecisionRejected
		verdict.ReasonCode = ReasonDateInvalid
		return verdict
	}
	if start := startBound(item); !start.IsZero() && !period.End.After(start) {
		verdict.Decision = registry.DecisionRejected
		verdict.ReasonCode = ReasonDateInvalid
		return verdict
	}
	if period.Start.After(v.now()) {
		verdict.Decision = registry.DecisionRejected
		verdict.ReasonCode = ReasonDateInvalid
		return verdict
	}

	if correction.Precision == "" {
		verdict.Decision = registry.DecisionNeedsResearch
		verdict.ReasonCode = ReasonMissingPrecision
		return verdict
	}
	evidence := strings.ToLower(correction.EvidenceSnippet)
	if strings.TrimSpace(evidence) == "" {
		verdict.Decision = registry.DecisionNeedsResearch
		verdict.ReasonCode = ReasonNoEvidence
		return verdict
	}
	for _, marker := range v.currentMarkers {
		if marker = strings.ToLower(strings.TrimSpace(marker)); marker == "" {
			continue
		}
		if strings.Contains(evidence, marker) {
			verdict.Decision = registry.DecisionNeedsResearch
			verdict.ReasonCode = ReasonStillCurrent
			return verdict
		}
	}

	verdict.Decision = registry.DecisionAccepted
	verdict.ReasonCode = ReasonOK
	return verdict
}
