// Package services defines shared utilities consumed by the pipeline stages
// and the Wikipedia/Wikidata integrations.
//
// Key responsibilities:
//   - Context helpers that stamp player QIDs, stage names, and run
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs skipped).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
