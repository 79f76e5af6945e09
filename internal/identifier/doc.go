// Package identifier provides canonicalization helpers for the identifier
// namespaces the matching bridges operate on: UniProt accessions, Ensembl
// protein IDs, and gene symbols.
//
// All normalizers are pure and total. Input that cannot be parsed is returned
// unchanged (or as an empty string for null-like values) rather than raising
// an error, so callers can normalize entire columns without guarding each
// value. Normalization is idempotent: normalizing an already-normalized
// identifier returns it unchanged.
package identifier
