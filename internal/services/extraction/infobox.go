package extraction

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CareerSpan is one senior-career row from a player infobox.
type CareerSpan struct {
	Club      string
	StartYear string
	EndYear   string
	Current   bool
}

var (
	// "2012–2019", "2012-2019", "2019–" (current club), "2019".
	yearSpanPattern = regexp.MustCompile(`^\s*(\d{4})\s*[–-]?\s*(\d{4})?\s*$`)
	openSpanPattern = regexp.MustCompile(`^\s*(\d{4})\s*[–-]\s*$`)
)

// ParseInfoboxCareer pulls senior-career rows out of rendered article HTML.
// Infobox career rows carry the year span in the row header cell and the
// club name in the following cell; rows outside the senior career block
// (youth teams, national team) are ignored.
func ParseInfoboxCareer(html string) ([]CareerSpan, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var spans []CareerSpan
	inSenior := false
	doc.Find("table.infobox tr").Each(func(_ int, row *goquery.Selection) {
		header := strings.TrimSpace(row.Find("th").First().Text())
		cell := strings.TrimSpace(row.Find("td").First().Text())

		// Section divider rows have a header and no data cell.
		if cell == "" && header != "" {
			lower := strings.ToLower(header)
			switch {
			case strings.Contains(lower, "senior career"):
				inSenior = true
			case strings.Contains(lower, "career"), strings.Contains(lower, "national team"), strings.Contains(lower, "teams managed"):
				inSenior = false
			}
			return
		}
		if !inSenior || header == "" || cell == "" {
			return
		}

		span, ok := parseYearSpan(header)
		if !ok {
			return
		}
		span.Club = cleanClubCell(cell)
		if span.Club != "" {
			spans = append(spans, span)
		}
	})
	return spans, nil
}

func parseYearSpan(value string) (CareerSpan, bool) {
	if m := openSpanPattern.FindStringSubmatch(value); m != nil {
		return CareerSpan{StartYear: m[1], Current: true}, true
	}
	m := yearSpanPattern.FindStringSubmatch(value)
	if m == nil {
		return CareerSpan{}, false
	}
	span := CareerSpan{StartYear: m[1], EndYear: m[2]}
	if span.EndYear == "" {
		span.EndYear = span.StartYear
	}
	return span, true
}

// cleanClubCell strips loan annotations and footnote markers from a club cell.
func cleanClubCell(value string) string {
	value = strings.TrimSpace(value)
	if idx := strings.Index(value, "(loan"); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	value = strings.TrimRight(value, "*†")
	return strings.TrimSpace(value)
}
