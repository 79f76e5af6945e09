package match

import (
	"context"
	"fmt"

	"biobridge/internal/dataset"
)

// Method identifies how a match was established. Confidence monotonically
// reflects method quality: exact matches score 1.0, version-stripped matches
// 0.95, and fuzzy matches fall between the configured threshold and 1.0.
type Method string

const (
	MethodExact           Method = "exact"
	MethodVersionStripped Method = "version_stripped"
	MethodFuzzy           Method = "fuzzy"
	MethodProteinSpecific Method = "protein_specific"
	MethodResolveAndMatch Method = "resolve_and_match"
)

// Record is one scored match between a source and a target identifier.
type Record struct {
	SourceID   string
	TargetID   string
	Confidence float64
	Method     Method
	Details    map[string]string
}

// Outcome is the structured result of one strategy execution. A failed
// outcome carries a descriptive message instead of matches; it is a value,
// not an error, so multi-stage runs can continue past it.
type Outcome struct {
	Success          bool
	Message          string
	Matches          []Record
	MatchedSourceIDs []string
	Details          map[string]any
}

// Strategy is one matching bridge: it consumes a source and a reference
// dataset and produces scored match records. Implementations are
// deterministic given identical inputs and never mutate the datasets.
type Strategy interface {
	Name() string
	Match(ctx context.Context, source, reference *dataset.Dataset) Outcome
}

// failure builds a failed outcome with a descriptive message.
func failure(format string, args ...any) Outcome {
	return Outcome{Success: false, Message: fmt.Sprintf(format, args...)}
}

// checkInputs validates dataset presence and required columns, returning a
// failure outcome when matching cannot proceed. A nil return means inputs are
// usable.
func checkInputs(source, reference *dataset.Dataset, sourceColumn, targetColumn string) *Outcome {
	if source.Len() == 0 {
		out := failure("source dataset is missing or empty")
		return &out
	}
	if reference.Len() == 0 {
		out := failure("reference dataset is missing or empty")
		return &out
	}
	if !source.HasColumn(sourceColumn) {
		out := failure("source dataset has no column %q", sourceColumn)
		return &out
	}
	if !reference.HasColumn(targetColumn) {
		out := failure("reference dataset has no column %q", targetColumn)
		return &out
	}
	return nil
}

// dedupeNonEmpty returns the distinct non-empty values in order of first
// appearance.
func dedupeNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
