package extraction_test

import (
	"strings"
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/extraction"
)

func TestCareerSectionSlicesBetweenHeaders(t *testing.T) {
	article := strings.Join([]string{
		"Eden Hazard is a Belgian former footballer.",
		"",
		"== Club career ==",
		"Hazard joined Chelsea in 2012 and left for Real Madrid in June 2019.",
		"",
		"== International career ==",
		"He made his Belgium debut in 2008.",
	}, "\n")

	career := extraction.CareerSection(article)
	if !strings.Contains(career, "left for Real Madrid in June 2019") {
		t.Fatalf("expected career text, got %q", career)
	}
	if strings.Contains(career, "Belgium debut") {
		t.Fatalf("career section leaked past the next header: %q", career)
	}
	if !strings.HasPrefix(career, "== Club career ==") {
		t.Fatalf("expected section to start at the header, got %q", career)
	}
}

func TestCareerSectionAlternateHeaders(t *testing.T) {
	article := "Intro.\n\n== Playing career ==\nYears at United.\n\n== Honours ==\nNone."
	career := extraction.CareerSection(article)
	if !strings.Contains(career, "Years at United") || strings.Contains(career, "Honours") {
		t.Fatalf("unexpected slice %q", career)
	}
}

func TestCareerSectionFallsBackToArticleOpening(t *testing.T) {
	short := "A player with no section headers at all."
	if got := extraction.CareerSection(short); got != short {
		t.Fatalf("expected whole article, got %q", got)
	}

	long := strings.Repeat("x", 6000)
	if got := extraction.CareerSection(long); len(got) != 5000 {
		t.Fatalf("expected 5000 char fallback, got %d", len(got))
	}
}
