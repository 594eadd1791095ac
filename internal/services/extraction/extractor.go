package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
)

// Request carries everything an extractor may consult for one work item.
type Request struct {
	PlayerName  string
	ClubName    string
	StartDate   string
	Extract     string
	InfoboxHTML string
	ArticleURL  string
}

// Result is a candidate departure date. Found is false when the text gives
// no usable departure, which is a normal outcome, not an error.
type Result struct {
	Found     bool
	ClubName  string
	EndDate   string
	Precision registry.Precision
	Evidence  string
}

// Extractor derives a candidate departure date from article material.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}

// InfoboxExtractor reads the departure year straight from the infobox senior
// career rows when the stale club appears there with a closed year span.
type InfoboxExtractor struct{}

func (InfoboxExtractor) Extract(_ context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.InfoboxHTML) == "" || strings.TrimSpace(req.ClubName) == "" {
		return &Result{}, nil
	}
	spans, err := ParseInfoboxCareer(req.InfoboxHTML)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "extraction", "infobox", "parse html", err)
	}
	for _, span := range spans {
		if !clubNamesMatch(span.Club, req.ClubName) {
			continue
		}
		if span.Current || span.EndYear == "" {
			return &Result{}, nil
		}
		evidence := fmt.Sprintf("infobox: %s–%s %s", span.StartYear, span.EndYear, span.Club)
		return &Result{
			Found:     true,
			ClubName:  span.Club,
			EndDate:   span.EndYear,
			Precision: registry.PrecisionYear,
			Evidence:  evidence,
		}, nil
	}
	return &Result{}, nil
}

// ModelExtractor asks a JSON-mode language model to read the career section.
type ModelExtractor struct {
	Client *Client
}

type modelPayload struct {
	Found     bool   `json:"found"`
	Club      string `json:"club"`
	EndDate   string `json:"end_date"`
	Precision string `json:"precision"`
	Evidence  string `json:"evidence"`
}

func (m *ModelExtractor) Extract(ctx context.Context, req Request) (*Result, error) {
	if m == nil || m.Client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "extraction", "model", "client not configured", nil)
	}
	career := CareerSection(req.Extract)
	if strings.TrimSpace(career) == "" {
		return &Result{}, nil
	}

	content, err := m.Client.CompleteJSON(ctx, DeparturePrompt, BuildUserPrompt(req.PlayerName, req.ClubName, req.StartDate, career))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "extraction", "model", "completion", err)
	}
	var payload modelPayload
	if err := DecodeModelJSON(content, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "extraction", "model", "parse payload", err)
	}
	if !payload.Found {
		return &Result{}, nil
	}

	precision, ok := registry.ParsePrecision(payload.Precision)
	if !ok {
		precision = ""
	}
	if precision == "" {
		precision = precisionFromShape(payload.EndDate)
	}
	return &Result{
		Found:     true,
		ClubName:  strings.TrimSpace(payload.Club),
		EndDate:   strings.TrimSpace(payload.EndDate),
		Precision: precision,
		Evidence:  strings.TrimSpace(payload.Evidence),
	}, nil
}

// Chain runs extractors in order and returns the first positive result.
// An extractor error fails the chain only when it is the last hope: earlier
// extractor failures fall through to the next one.
type Chain []Extractor

func (c Chain) Extract(ctx context.Context, req Request) (*Result, error) {
	var lastErr error
	for _, extractor := range c {
		result, err := extractor.Extract(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if result != nil && result.Found {
			return result, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return &Result{}, nil
}

func precisionFromShape(date string) registry.Precision {
	switch strings.Count(strings.TrimSpace(date), "-") {
	case 2:
		return registry.PrecisionDay
	case 1:
		return registry.PrecisionMonth
	default:
		return registry.PrecisionYear
	}
}

var clubSuffixTokens = map[string]struct{}{
	"fc": {}, "afc": {}, "cf": {}, "cfc": {}, "sc": {}, "ac": {},
}

// clubNamesMatch compares club names loosely enough to survive the FC/AFC
// suffix noise between the infobox and Wikidata labels. It never merges
// distinct clubs that share a city name.
func clubNamesMatch(a, b string) bool {
	return foldClub(a) == foldClub(b)
}

func foldClub(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	kept := fields[:0]
	for _, field := range fields {
		field = strings.Trim(field, ".,")
		if _, ok := clubSuffixTokens[field]; ok {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}
