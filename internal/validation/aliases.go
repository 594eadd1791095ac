package validation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasTable maps normalized club name variants to a canonical form.
// The zero value resolves every name to itself.
type AliasTable struct {
	canonical map[string]string
}

type aliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// LoadAliases reads a YAML alias table. The file maps a canonical club name
// to the list of variants seen in article text:
//
//	aliases:
//	  "internazionale":
//	    - "inter milan"
//	    - "inter"
//
// Both keys and variants are normalized on load, so the file may use any
// capitalization or suffix style.
func LoadAliases(path string) (*AliasTable, error) {
	if path == "" {
		return &AliasTable{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases builds an alias table from YAML bytes.
func ParseAliases(data []byte) (*AliasTable, error) {
	var parsed aliasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	table := &AliasTable{canonical: make(map[string]string)}
	for canonical, variants := range parsed.Aliases {
		target := NormalizeClub(canonical)
		if target == "" {
			continue
		}
		for _, variant := range variants {
			if v := NormalizeClub(variant); v != "" {
				table.canonical[v] = target
			}
		}
	}
	return table, nil
}

// Resolve maps a normalized name to its canonical form, or returns the
// input when no alias applies.
func (t *AliasTable) Resolve(normalized string) string {
	if t == nil || t.canonical == nil {
		return normalized
	}
	if canonical, ok := t.canonical[normalized]; ok {
		return canonical
	}
	return normalized
}
