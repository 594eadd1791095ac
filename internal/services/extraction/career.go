package extraction

import "strings"

// careerFallbackLength bounds the text sent onward when no career section
// header exists in the article.
const careerFallbackLength = 5000

var careerMarkers = []string{
	"== club career ==",
	"== career ==",
	"== professional career ==",
	"== playing career ==",
}

var careerEndMarkers = []string{
	"\n== international",
	"\n== personal",
	"\n== honours",
	"\n== career statistics",
	"\n== references",
	"\n== external",
	"\n== style",
	"\n== playing style",
}

// CareerSection slices the club career section out of a plain-text article
// extract. Articles without a recognizable career header fall back to the
// opening of the article, which usually summarizes the player's clubs.
func CareerSection(text string) string {
	lower := strings.ToLower(text)

	start := -1
	for _, marker := range careerMarkers {
		if idx := strings.Index(lower, marker); idx != -1 {
			start = idx
			break
		}
	}
	if start == -1 {
		if len(text) > careerFallbackLength {
			return text[:careerFallbackLength]
		}
		return text
	}

	career := text[start:]
	careerLower := lower[start:]
	end := len(career)
	for _, marker := range careerEndMarkers {
		if idx := strings.Index(careerLower, marker); idx != -1 && idx < end {
			end = idx
		}
	}
	return career[:end]
}
