package pipeline

import (
	"biobridge/internal/dataset"
)

// ExclusionSet accumulates the source identifiers already matched by earlier
// stages. It only grows; an identifier added once stays excluded for the rest
// of the run.
type ExclusionSet struct {
	ids map[string]struct{}
}

// NewExclusionSet returns an empty exclusion set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{ids: make(map[string]struct{})}
}

// Add marks identifiers as matched. Empty strings are ignored.
func (s *ExclusionSet) Add(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.ids[id] = struct{}{}
	}
}

// Contains reports whether an identifier has been matched.
func (s *ExclusionSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len reports the number of distinct matched identifiers.
func (s *ExclusionSet) Len() int {
	return len(s.ids)
}

// FilterUnmatched returns the identifiers not yet matched, preserving input
// order. Duplicates in the input survive; the set only decides membership.
func (s *ExclusionSet) FilterUnmatched(ids []string) []string {
	remaining := make([]string, 0, len(ids))
	for _, id := range ids {
		if !s.Contains(id) {
			remaining = append(remaining, id)
		}
	}
	return remaining
}

// FilterDataset returns the records whose value in the named column is not in
// the exclusion set. Records with an empty value in the column are kept; they
// can never have been matched. A dataset without the column passes through
// unfiltered so the stage itself can report the missing column.
func FilterDataset(ds *dataset.Dataset, column string, set *ExclusionSet) *dataset.Dataset {
	if ds == nil || !ds.HasColumn(column) {
		return ds
	}
	return ds.Filter(func(record dataset.Record) bool {
		value := record.Get(column)
		return value == "" || !set.Contains(value)
	})
}
