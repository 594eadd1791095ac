package validation_test

import (
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/validation"
)

func TestNormalizeClub(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chelsea FC", "chelsea"},
		{"Chelsea F.C.", "chelsea"},
		{"  chelsea  ", "chelsea"},
		{"Atlético Madrid", "atletico madrid"},
		{"São Paulo FC", "sao paulo"},
		{"1. FC Köln", "1 koln"},
		{"Manchester United", "manchester united"},
		{"Manchester City", "manchester city"},
		{"AFC Ajax", "ajax"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := validation.NormalizeClub(tc.in); got != tc.want {
			t.Errorf("NormalizeClub(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClubsMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Chelsea FC", "Chelsea", true},
		{"Chelsea F.C.", "chelsea fc", true},
		{"Atlético Madrid", "Atletico Madrid", true},
		{"Manchester United FC", "Manchester United", true},
		{"Manchester United", "Manchester City", false},
		{"Real Madrid", "Real Sociedad", false},
		{"", "Chelsea", false},
	}
	for _, tc := range cases {
		if got := validation.ClubsMatch(tc.a, tc.b, nil); got != tc.want {
			t.Errorf("ClubsMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestAliasTableResolvesVariants(t *testing.T) {
	table, err := validation.ParseAliases([]byte(`
aliases:
  "Internazionale":
    - "Inter Milan"
    - "Inter"
  "Bayern Munich":
    - "FC Bayern München"
`))
	if err != nil {
		t.Fatalf("ParseAliases failed: %v", err)
	}

	if !validation.ClubsMatch("Inter Milan", "Internazionale", table) {
		t.Fatal("expected alias to match canonical name")
	}
	if !validation.ClubsMatch("FC Bayern München", "Bayern Munich", table) {
		t.Fatal("expected diacritic alias to match")
	}
	if validation.ClubsMatch("Inter Milan", "AC Milan", table) {
		t.Fatal("alias must not merge distinct clubs")
	}
}

func TestLoadAliasesEmptyPath(t *testing.T) {
	table, err := validation.LoadAliases("")
	if err != nil {
		t.Fatalf("LoadAliases failed: %v", err)
	}
	if got := table.Resolve("chelsea"); got != "chelsea" {
		t.Fatalf("empty table must resolve to input, got %q", got)
	}
}

func TestParseAliasesRejectsBadYAML(t *testing.T) {
	if _, err := validation.ParseAliases([]byte("aliases: [broken")); err == nil {
		t.Fatal("expected parse error")
	}
}
