// Command wfc is the CLI for the Wikidata football cleanup pipeline. It
// imports stale player-club entries, runs the overnight article fetch,
// extracts and validates departure dates, and renders QuickStatements
// batches for upload.
package main
