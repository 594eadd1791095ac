// Package config loads, normalizes, and validates cleanup pipeline
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: data directories, Wikipedia/Wikidata endpoints, politeness
// and retry settings, extraction credentials, and validation rules.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
