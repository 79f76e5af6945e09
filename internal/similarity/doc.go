// Package similarity provides the string-similarity scorers used by the
// fuzzy matching bridges.
//
// All scorers return a confidence on a 0–1 scale where 1.0 is an exact match
// after normalization. The ratio family mirrors the classic fuzzy-matching
// toolbox: a plain edit-distance ratio, a partial ratio for substring-shaped
// matches, and token-sort/token-set ratios that are insensitive to word order
// and duplication. A protein-specific scorer strips naming decorations
// (species suffixes, isoform markers) through a tunable rule table before
// comparing.
package similarity
