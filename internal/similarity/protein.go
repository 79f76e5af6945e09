package similarity

import (
	"regexp"
	"strings"
)

// ProteinRules holds the decoration-stripping patterns applied before the
// protein-specific comparison. The defaults cover the common decorations seen
// in protein naming (species suffixes, isoform markers, fragment notes), but
// the table is a tunable parameter rather than a fixed algorithm: callers can
// supply their own patterns per deployment.
type ProteinRules struct {
	patterns []*regexp.Regexp
}

// defaultProteinPatterns strip naming decorations that carry no identity:
// species mnemonics, isoform suffixes, and fragment annotations.
var defaultProteinPatterns = []string{
	`(?i)_(human|mouse|rat|bovin|yeast|ecoli|pig|rabit|chick)$`,
	`-\d+$`,
	`(?i)\s+isoform\s+\w+$`,
	`(?i)\s*\(fragment\)$`,
	`(?i)\s+precursor$`,
}

// NewProteinRules compiles a rule table from regex patterns. An empty pattern
// list yields rules that strip nothing.
func NewProteinRules(patterns []string) (*ProteinRules, error) {
	rules := &ProteinRules{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, pattern := range patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		rules.patterns = append(rules.patterns, compiled)
	}
	return rules, nil
}

// DefaultProteinRules returns the built-in decoration table.
func DefaultProteinRules() *ProteinRules {
	rules, err := NewProteinRules(defaultProteinPatterns)
	if err != nil {
		// The default table is static; a compile failure is a programmer error.
		panic(err)
	}
	return rules
}

// Strip removes every configured decoration from the value, repeatedly, until
// no pattern applies.
func (r *ProteinRules) Strip(value string) string {
	if r == nil {
		return strings.TrimSpace(value)
	}
	stripped := strings.TrimSpace(value)
	for {
		before := stripped
		for _, pattern := range r.patterns {
			stripped = strings.TrimSpace(pattern.ReplaceAllString(stripped, ""))
		}
		if stripped == before {
			return stripped
		}
	}
}

// ProteinRatio compares two protein identifiers after stripping naming
// decorations through the rule table. Decorated forms of the same protein
// ("TP53_HUMAN" vs "TP53") score 1.0.
func ProteinRatio(a, b string, rules *ProteinRules) float64 {
	if rules == nil {
		rules = DefaultProteinRules()
	}
	strippedA := rules.Strip(a)
	strippedB := rules.Strip(b)
	if strings.EqualFold(strippedA, strippedB) && strippedA != "" {
		return 1.0
	}
	return Ratio(strippedA, strippedB)
}
