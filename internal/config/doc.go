// Package config loads, normalizes, and validates biobridge configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// UNIPROT_CONTACT. The Config type centralizes every knob the CLI needs,
// from the catalog location to resolver connection settings and matching
// defaults.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
