// Package wikidata resolves player QIDs to English Wikipedia article titles
// through the wbgetentities API. The sitelink is the authoritative mapping;
// title guessing and search only run when no sitelink exists.
package wikidata
