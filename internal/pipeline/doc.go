// Package pipeline runs reconciliation strategies as an ordered sequence of
// stages. Each stage sees only the source identifiers no earlier stage
// matched, records its statistics, and never aborts the run: a failed stage
// logs, records a failure entry, and hands the full remaining population to
// the next stage.
package pipeline
