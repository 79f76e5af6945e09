// Package services defines the shared error taxonomy and context carriers
// used across the matching pipeline.
//
// Errors returned from stage setup are tagged with a sentinel marker so the
// CLI can classify them without string matching. Data-availability problems
// inside a running stage are not errors at all: strategies report them as
// structured outcomes so the orchestrator can continue with later stages.
package services
