// Package dataset models the tabular datasets the matching bridges consume
// and provides the named-dataset stores the pipeline reads inputs from and
// writes match outputs to.
//
// Two store implementations exist: an in-memory store for library use and
// tests, and a SQLite-backed catalog that persists datasets between runs.
// Strategies borrow records read-only; nothing in this package mutates a
// dataset after it is stored.
package dataset
