package similarity

import (
	"regexp"
	"sort"
	"strings"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Ratio computes a normalized similarity between two strings,
// case-insensitively: 2*M/(len(a)+len(b)) where M is the number of matching
// characters under the best alignment. Identical strings score 1.0; strings
// sharing nothing score 0.0. Two empty strings are considered identical.
func Ratio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 1.0 - float64(indelDistance(a, b))/float64(total)
}

// PartialRatio scores the best alignment of the shorter string against every
// same-length window of the longer string. Useful when one identifier embeds
// the other ("TP53" vs "TP53BP1").
func PartialRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 1.0
		}
		return 0.0
	}
	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		if score := Ratio(shorter, window); score > best {
			best = score
			if best >= 1.0 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares the
// rejoined forms. Word order does not affect the score.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio compares the token intersection against each side's residual
// tokens and keeps the best pairwise score. Duplicate and reordered tokens do
// not affect the score.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)

	var intersection, onlyA, onlyB []string
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection = append(intersection, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if _, ok := tokensA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(intersection)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(intersection, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := Ratio(base, combinedA)
	if score := Ratio(base, combinedB); score > best {
		best = score
	}
	if score := Ratio(combinedA, combinedB); score > best {
		best = score
	}
	return best
}

// Tokenize splits text into lowercase alphanumeric tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func sortedTokenString(text string) string {
	tokens := Tokenize(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		set[token] = struct{}{}
	}
	return set
}

// indelDistance computes the insert/delete edit distance (substitutions
// count as delete+insert) using a two-row dynamic program. It relates to the
// longest common subsequence: distance = len(a) + len(b) - 2*LCS.
func indelDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				current[j] = previous[j-1]
				continue
			}
			current[j] = minInt(previous[j]+1, current[j-1]+1)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}

func minInt(values ...int) int {
	best := values[0]
	for _, v := range values[1:] {
		if v < best {
			best = v
		}
	}
	return best
}
