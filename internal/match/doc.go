// Package match implements the bridge strategies that connect source records
// to reference records through a shared identifier namespace.
//
// Four bridge families exist: exact-ID matching with composite-identifier
// expansion, gene-symbol matching with a fuzzy fallback, Ensembl matching
// with version-stripped fallback, and historical-ID resolution through an
// external resolver. A multi-bridge cascade composes per-record attempts
// across several identifier columns in priority order.
//
// Strategies never mutate their input datasets and never abort a pipeline:
// missing columns and empty datasets produce a structured failure outcome so
// the progressive orchestrator can continue with later stages.
package match
