package validation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Corporate suffix tokens that vary between Wikidata labels and article
// text without identifying a different club. Tokens like "United" or
// "City" stay: they distinguish clubs that share a city name.
var suffixTokens = map[string]struct{}{
	"fc":  {},
	"afc": {},
	"cfc": {},
	"cf":  {},
	"sc":  {},
	"ac":  {},
	"bk":  {},
	"if":  {},
	"sv":  {},
}

// NormalizeClub folds a club name for comparison: diacritics are stripped,
// case is dropped, punctuation becomes spacing, and corporate suffix tokens
// are removed. "Chelsea F.C." and "chelsea fc" both fold to "chelsea";
// "Manchester United" and "Manchester City" stay distinct.
func NormalizeClub(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, field := range fields {
		if _, ok := suffixTokens[field]; ok {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// ClubsMatch reports whether two club names refer to the same club after
// normalization and alias resolution.
func ClubsMatch(a, b string, aliases *AliasTable) bool {
	na := aliases.Resolve(NormalizeClub(a))
	nb := aliases.Resolve(NormalizeClub(b))
	return na != "" && na == nb
}
