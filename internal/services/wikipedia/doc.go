// Package wikipedia fetches plain-text article extracts from the MediaWiki
// query API. The client retries transient failures with exponential backoff,
// honours Retry-After on throttling responses, and resolves players to
// articles through a title strategy chain: the Wikidata sitelink first, then
// name-based title variations, then full-text search.
package wikipedia
