// Package extraction produces candidate departure dates from fetched
// article text. Structured infobox parsing runs first; when the infobox
// yields nothing usable, a JSON-mode language model call over the career
// section fills the gap. Every candidate carries the evidence snippet it was
// derived from so the validator and a human reviewer can check it.
package extraction
