// Package validation applies deterministic checks to extracted corrections
// before a human sees them. The validator never calls the network and never
// mutates its inputs: the same correction always yields the same verdict.
package validation
