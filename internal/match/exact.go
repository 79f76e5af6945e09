package match

import (
	"context"
	"sort"

	"biobridge/internal/composite"
	"biobridge/internal/dataset"
	"biobridge/internal/services"
)

// Match modes for the exact-ID bridge.
const (
	ModeManyToMany = "many_to_many"
	ModeOneToOne   = "one_to_one"
)

// ExactConfig configures the exact-ID bridge.
type ExactConfig struct {
	SourceColumn string
	TargetColumn string
	// MatchMode is many_to_many (default) or one_to_one.
	MatchMode string
	// CompositeHandling selects how multi-part identifiers expand before the
	// intersection is computed.
	CompositeHandling composite.Policy
	Delimiter         string
}

// ExactBridge matches identifiers by set intersection at the expanded level,
// reconstructing original pairs through the composite inverse maps.
type ExactBridge struct {
	cfg ExactConfig
}

var _ Strategy = (*ExactBridge)(nil)

// NewExactBridge validates the configuration and builds the bridge.
func NewExactBridge(cfg ExactConfig) (*ExactBridge, error) {
	if cfg.SourceColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "exact_bridge", "setup", "source_column is required", nil)
	}
	if cfg.TargetColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "exact_bridge", "setup", "target_column is required", nil)
	}
	switch cfg.MatchMode {
	case "":
		cfg.MatchMode = ModeManyToMany
	case ModeManyToMany, ModeOneToOne:
	default:
		return nil, services.Wrap(services.ErrConfiguration, "exact_bridge", "setup", "unknown match_mode "+cfg.MatchMode, nil)
	}
	if cfg.CompositeHandling == "" {
		cfg.CompositeHandling = composite.PolicyMatchWhole
	}
	if _, err := composite.ParsePolicy(string(cfg.CompositeHandling)); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "exact_bridge", "setup", err.Error(), nil)
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = composite.DefaultDelimiter
	}
	return &ExactBridge{cfg: cfg}, nil
}

// Name implements Strategy.
func (b *ExactBridge) Name() string { return "exact_bridge" }

// Match implements Strategy.
func (b *ExactBridge) Match(_ context.Context, source, reference *dataset.Dataset) Outcome {
	if out := checkInputs(source, reference, b.cfg.SourceColumn, b.cfg.TargetColumn); out != nil {
		return *out
	}

	sourceValues, _ := source.Column(b.cfg.SourceColumn)
	targetValues, _ := reference.Column(b.cfg.TargetColumn)
	sourceIDs := dedupeNonEmpty(sourceValues)
	targetIDs := dedupeNonEmpty(targetValues)

	// Mappings are rebuilt fresh per call; nothing carries across stages.
	sourceMap, err := composite.Expand(sourceIDs, b.cfg.CompositeHandling, b.cfg.Delimiter)
	if err != nil {
		return failure("expand source identifiers: %v", err)
	}
	targetMap, err := composite.Expand(targetIDs, b.cfg.CompositeHandling, b.cfg.Delimiter)
	if err != nil {
		return failure("expand target identifiers: %v", err)
	}

	targetTokens := make(map[string]struct{}, len(targetMap.All()))
	for _, token := range targetMap.All() {
		targetTokens[token] = struct{}{}
	}

	var common []string
	for _, token := range sourceMap.All() {
		if _, ok := targetTokens[token]; ok {
			common = append(common, token)
		}
	}

	var matches []Record
	switch b.cfg.MatchMode {
	case ModeOneToOne:
		matches = b.matchOneToOne(common, sourceMap, targetMap)
	default:
		matches = b.matchManyToMany(common, sourceMap, targetMap)
	}

	matchedSources := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.SourceID]; ok {
			continue
		}
		seen[m.SourceID] = struct{}{}
		matchedSources = append(matchedSources, m.SourceID)
	}

	return Outcome{
		Success:          true,
		Message:          "exact bridge completed",
		Matches:          matches,
		MatchedSourceIDs: matchedSources,
		Details: map[string]any{
			"common_tokens": len(common),
			"match_mode":    b.cfg.MatchMode,
		},
	}
}

// matchManyToMany emits every (source original, target original) pair sharing
// a common expanded token, deduplicated.
func (b *ExactBridge) matchManyToMany(common []string, sourceMap, targetMap *composite.Mapping) []Record {
	type pair struct{ source, target string }
	emitted := make(map[pair]struct{})
	var matches []Record
	for _, token := range common {
		for _, sourceOriginal := range sourceMap.Originals(token) {
			for _, targetOriginal := range targetMap.Originals(token) {
				p := pair{sourceOriginal, targetOriginal}
				if _, ok := emitted[p]; ok {
					continue
				}
				emitted[p] = struct{}{}
				matches = append(matches, Record{
					SourceID:   sourceOriginal,
					TargetID:   targetOriginal,
					Confidence: 1.0,
					Method:     MethodExact,
					Details:    map[string]string{"shared_token": token},
				})
			}
		}
	}
	return matches
}

// matchOneToOne sorts originals lexicographically for determinism and lets
// each target original be consumed by at most one source original.
func (b *ExactBridge) matchOneToOne(common []string, sourceMap, targetMap *composite.Mapping) []Record {
	candidates := make(map[string]map[string]string) // source -> target -> shared token
	for _, token := range common {
		for _, sourceOriginal := range sourceMap.Originals(token) {
			targets, ok := candidates[sourceOriginal]
			if !ok {
				targets = make(map[string]string)
				candidates[sourceOriginal] = targets
			}
			for _, targetOriginal := range targetMap.Originals(token) {
				if _, ok := targets[targetOriginal]; !ok {
					targets[targetOriginal] = token
				}
			}
		}
	}

	sources := make([]string, 0, len(candidates))
	for source := range candidates {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	consumed := make(map[string]struct{})
	var matches []Record
	for _, source := range sources {
		targets := make([]string, 0, len(candidates[source]))
		for target := range candidates[source] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		for _, target := range targets {
			if _, taken := consumed[target]; taken {
				continue
			}
			consumed[target] = struct{}{}
			matches = append(matches, Record{
				SourceID:   source,
				TargetID:   target,
				Confidence: 1.0,
				Method:     MethodExact,
				Details:    map[string]string{"shared_token": candidates[source][target]},
			})
			break
		}
	}
	return matches
}
