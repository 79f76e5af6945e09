// Package composite expands multi-part identifiers into their constituent
// tokens while preserving the mapping needed to translate expanded-level
// matches back to the original identifiers.
//
// A composite identifier encodes several underlying entities in one string,
// joined by a delimiter: "Q14213_Q8NEV9" names two UniProt accessions. Exact
// bridges match at the expanded level and then reconstruct original pairs
// through the inverse mapping kept here.
package composite

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultDelimiter separates components in composite identifiers.
const DefaultDelimiter = "_"

// Policy selects how composite identifiers are expanded.
type Policy string

const (
	// PolicyMatchWhole performs no splitting; identifiers map to themselves.
	PolicyMatchWhole Policy = "match_whole"
	// PolicySplitAndMatch replaces a delimited identifier with its parts.
	// The original is not retained as an expanded entry of its own.
	PolicySplitAndMatch Policy = "split_and_match"
	// PolicyBoth retains the original and adds its parts.
	PolicyBoth Policy = "both"
)

// ParsePolicy validates a policy string from configuration.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.TrimSpace(strings.ToLower(value))) {
	case PolicyMatchWhole:
		return PolicyMatchWhole, nil
	case PolicySplitAndMatch:
		return PolicySplitAndMatch, nil
	case PolicyBoth:
		return PolicyBoth, nil
	case "":
		return PolicyMatchWhole, nil
	}
	return "", fmt.Errorf("unknown composite policy %q", value)
}

// Mapping holds the bidirectional association between original identifiers
// and their expanded tokens for one expansion call. Mappings are rebuilt per
// matching call rather than persisted across pipeline stages.
type Mapping struct {
	originalToExpanded map[string][]string
	expandedToOriginal map[string]map[string]struct{}
	all                []string
}

// Expand expands identifiers under the given policy. Empty components
// produced by consecutive delimiters are dropped. The inverse map accumulates
// a set of originals per expanded token, since distinct composites may share
// a component.
func Expand(identifiers []string, policy Policy, delimiter string) (*Mapping, error) {
	switch policy {
	case PolicyMatchWhole, PolicySplitAndMatch, PolicyBoth:
	default:
		return nil, fmt.Errorf("unknown composite policy %q", policy)
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	m := &Mapping{
		originalToExpanded: make(map[string][]string, len(identifiers)),
		expandedToOriginal: make(map[string]map[string]struct{}, len(identifiers)),
	}
	seen := make(map[string]struct{}, len(identifiers))

	for _, original := range identifiers {
		if original == "" {
			continue
		}
		expanded := expandOne(original, policy, delimiter)
		m.originalToExpanded[original] = expanded
		for _, token := range expanded {
			originals, ok := m.expandedToOriginal[token]
			if !ok {
				originals = make(map[string]struct{}, 1)
				m.expandedToOriginal[token] = originals
			}
			originals[original] = struct{}{}
			if _, dup := seen[token]; !dup {
				seen[token] = struct{}{}
				m.all = append(m.all, token)
			}
		}
	}
	return m, nil
}

func expandOne(original string, policy Policy, delimiter string) []string {
	if policy == PolicyMatchWhole || !strings.Contains(original, delimiter) {
		return []string{original}
	}

	parts := make([]string, 0, 2)
	if policy == PolicyBoth {
		parts = append(parts, original)
	}
	for _, part := range strings.Split(original, delimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		// Delimiters only; fall back to the untouched identifier.
		return []string{original}
	}
	return parts
}

// Expanded returns the expanded tokens recorded for an original identifier.
func (m *Mapping) Expanded(original string) []string {
	return m.originalToExpanded[original]
}

// Originals returns, sorted, every original identifier that contains or
// equals the expanded token.
func (m *Mapping) Originals(expanded string) []string {
	set, ok := m.expandedToOriginal[expanded]
	if !ok {
		return nil
	}
	originals := make([]string, 0, len(set))
	for original := range set {
		originals = append(originals, original)
	}
	sort.Strings(originals)
	return originals
}

// All returns every distinct expanded token, in first-seen order.
func (m *Mapping) All() []string {
	return m.all
}

// Len reports the number of original identifiers in the mapping.
func (m *Mapping) Len() int {
	return len(m.originalToExpanded)
}
