package pipeline

import (
	"biobridge/internal/match"
)

// StageResult is the orchestrator's view of one stage execution: the
// strategy's outcome flattened into loosely-typed fields, the shape the
// statistics sink and downstream tooling consume.
type StageResult struct {
	Success bool
	Message string
	Fields  map[string]any
	Details map[string]any
}

// matchedIdentifierKeys are the field names, in precedence order, under which
// strategies report the source identifiers they matched.
var matchedIdentifierKeys = []string{
	"output_identifiers",
	"matched_identifiers",
	"resolved_identifiers",
	"successful_matches",
}

// resultFromOutcome flattens a strategy outcome into a stage result.
func resultFromOutcome(outcome match.Outcome) StageResult {
	fields := map[string]any{
		"matched_identifiers": outcome.MatchedSourceIDs,
		"match_count":         len(outcome.Matches),
	}
	return StageResult{
		Success: outcome.Success,
		Message: outcome.Message,
		Fields:  fields,
		Details: outcome.Details,
	}
}

// ExtractMatchedIdentifiers pulls the matched source identifiers out of a
// stage result. It checks the recognized keys in the top-level fields first,
// then in the details, and returns the distinct identifiers from the first
// key that yields any. Values may be []string or []any of strings.
func ExtractMatchedIdentifiers(result StageResult) []string {
	for _, key := range matchedIdentifierKeys {
		if ids := stringSlice(result.Fields[key]); len(ids) > 0 {
			return dedupe(ids)
		}
	}
	for _, key := range matchedIdentifierKeys {
		if ids := stringSlice(result.Details[key]); len(ids) > 0 {
			return dedupe(ids)
		}
	}
	return nil
}

func stringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
