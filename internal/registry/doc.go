// Package registry persists the pipeline's work-item ledger in SQLite.
//
// Every stale Wikidata entry becomes one work item keyed by the player QID.
// The ledger also records the candidate corrections produced by the
// extraction stage and the verdicts produced by the validator, so run
// progress is always answerable from the database without rescanning raw
// article content.
package registry
