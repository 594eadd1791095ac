package wikipedia

import (
	"context"
	"strings"
)

// TitleVariations generates candidate article titles for a player name. The
// exact name comes first so a direct hit wins over a disambiguated page.
func TitleVariations(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	variations := []string{name, name + " (footballer)"}
	if underscored := strings.ReplaceAll(name, " ", "_"); underscored != name {
		variations = append(variations, underscored)
	}
	return variations
}

// FindArticle resolves a player to an article using the strategy chain:
// the Wikidata sitelink title when present, then name-based variations in a
// single batch call, then full-text search. Search hits must mention part of
// the player's name in the extract before they count. Articles shorter than
// minLength are treated as not found. The attempted titles are returned for
// diagnostics regardless of outcome; a nil page with a nil error means no
// acceptable article exists.
func (c *Client) FindArticle(ctx context.Context, playerName, sitelinkTitle string, minLength int) (*Page, []string, error) {
	var attempted []string

	if sitelinkTitle = strings.TrimSpace(sitelinkTitle); sitelinkTitle != "" {
		attempted = append(attempted, sitelinkTitle)
		page, err := c.FetchByTitle(ctx, sitelinkTitle)
		if err != nil {
			return nil, attempted, err
		}
		if acceptable(page, minLength) {
			return page, attempted, nil
		}
	}

	variations := TitleVariations(playerName)
	attempted = append(attempted, variations...)
	batch, err := c.FetchBatch(ctx, variations)
	if err != nil {
		return nil, attempted, err
	}
	for _, title := range variations {
		if page, ok := batch[title]; ok && acceptable(page, minLength) {
			return page, attempted, nil
		}
	}
	// Batch results are keyed by the canonical title, so an underscore
	// variation that redirected will not match its requested title.
	for _, page := range batch {
		if acceptable(page, minLength) {
			return page, attempted, nil
		}
	}

	hits, err := c.Search(ctx, playerName+" footballer")
	if err != nil {
		return nil, attempted, err
	}
	var fresh []string
	for _, title := range hits {
		if !containsTitle(attempted, title) {
			fresh = append(fresh, title)
		}
	}
	attempted = append(attempted, fresh...)
	if len(fresh) == 0 {
		return nil, attempted, nil
	}

	batch, err = c.FetchBatch(ctx, fresh)
	if err != nil {
		return nil, attempted, err
	}
	for _, title := range fresh {
		page, ok := batch[title]
		if !ok || !acceptable(page, minLength) {
			continue
		}
		if mentionsName(page.Extract, playerName) {
			return page, attempted, nil
		}
	}
	return nil, attempted, nil
}

func acceptable(page *Page, minLength int) bool {
	return page != nil && len(page.Extract) > minLength
}

// mentionsName guards search hits against homonyms: at least one name part
// longer than two characters must appear in the extract.
func mentionsName(extract, playerName string) bool {
	lower := strings.ToLower(extract)
	for _, part := range strings.Fields(strings.ToLower(playerName)) {
		if len(part) > 2 && strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if strings.EqualFold(t, title) {
			return true
		}
	}
	return false
}
