// Package logging wraps log/slog with the structured field conventions used
// throughout the pipeline: typed attribute constructors, standardized field
// keys, and context-derived enrichment (run ID, stage, correlation ID).
package logging
