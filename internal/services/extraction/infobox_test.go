package extraction_test

import (
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/extraction"
)

const infoboxHTML = `
<table class="infobox">
<tr><th colspan="2">Youth career</th></tr>
<tr><th>2003–2005</th><td>Tubize</td></tr>
<tr><th colspan="2">Senior career</th></tr>
<tr><th>2007–2012</th><td>Lille</td></tr>
<tr><th>2012–2019</th><td>Chelsea FC</td></tr>
<tr><th>2019–2023</th><td>Real Madrid</td></tr>
<tr><th>2023–</th><td>Current Club</td></tr>
<tr><th colspan="2">National team</th></tr>
<tr><th>2008–2022</th><td>Belgium</td></tr>
</table>`

func TestParseInfoboxCareer(t *testing.T) {
	spans, err := extraction.ParseInfoboxCareer(infoboxHTML)
	if err != nil {
		t.Fatalf("ParseInfoboxCareer failed: %v", err)
	}
	if len(spans) != 4 {
		t.Fatalf("expected 4 senior spans, got %d: %#v", len(spans), spans)
	}
	chelsea := spans[1]
	if chelsea.Club != "Chelsea FC" || chelsea.StartYear != "2012" {
		t.Fatalf("unexpected span: %#v", chelsea)
	}
	if chelsea.EndYear != "2019" {
		t.Fatalf("expected end year 2019, got %q", chelsea.EndYear)
	}
	last := spans[3]
	if !last.Current || last.StartYear != "2023" {
		t.Fatalf("expected open span for current club, got %#v", last)
	}
}

func TestParseInfoboxCareerSkipsYouthAndNationalRows(t *testing.T) {
	spans, err := extraction.ParseInfoboxCareer(infoboxHTML)
	if err != nil {
		t.Fatalf("ParseInfoboxCareer failed: %v", err)
	}
	for _, span := range spans {
		if span.Club == "Tubize" || span.Club == "Belgium" {
			t.Fatalf("non-senior row leaked into results: %#v", span)
		}
	}
}

func TestParseInfoboxCareerStripsLoanAnnotation(t *testing.T) {
	html := `<table class="infobox">
<tr><th colspan="2">Senior career</th></tr>
<tr><th>2016–2017</th><td>Vitesse (loan)</td></tr>
</table>`
	spans, err := extraction.ParseInfoboxCareer(html)
	if err != nil {
		t.Fatalf("ParseInfoboxCareer failed: %v", err)
	}
	if len(spans) != 1 || spans[0].Club != "Vitesse" {
		t.Fatalf("expected loan annotation stripped, got %#v", spans)
	}
}

func TestParseInfoboxCareerNoInfobox(t *testing.T) {
	spans, err := extraction.ParseInfoboxCareer("<p>No infobox here.</p>")
	if err != nil {
		t.Fatalf("ParseInfoboxCareer failed: %v", err)
	}
	if len(spans) != 0 {
		t.Fatalf("expected no spans, got %#v", spans)
	}
}
