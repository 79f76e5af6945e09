package match

import (
	"context"
	"fmt"
	"strings"

	"biobridge/internal/dataset"
	"biobridge/internal/services"
	"biobridge/internal/similarity"
)

// Bridge attempt methods.
const (
	AttemptExact = "exact"
	AttemptFuzzy = "fuzzy"
)

// Partial-match handling policies for sub-threshold results.
const (
	PartialBestMatch = "best_match"
	PartialReject    = "reject"
	PartialWarn      = "warn"
)

// shortCircuitConfidence stops further bridge attempts for a record once one
// bridge scores at or above it.
const shortCircuitConfidence = 0.99

// BridgeAttempt is one entry of the ordered attempt list driving the
// multi-bridge cascade. The list is configuration, not runtime state.
type BridgeAttempt struct {
	// Type labels the identifier namespace (uniprot, gene_symbol, ...).
	Type         string
	SourceColumn string
	TargetColumn string
	// Method is exact or fuzzy.
	Method string
	// ConfidenceThreshold gates matches produced by this bridge.
	ConfidenceThreshold float64
	Enabled             bool
}

// MultiBridgeConfig configures the priority cascade.
type MultiBridgeConfig struct {
	Bridges []BridgeAttempt
	// MinOverallConfidence is the global floor applied after the per-bridge
	// threshold.
	MinOverallConfidence float64
	// PartialMatchHandling selects what happens to sub-threshold best
	// results: best_match (include anyway), reject (drop), warn (include
	// with a warning annotation). Defaults to reject.
	PartialMatchHandling string
	// SourceIDColumn and TargetIDColumn name the identifier columns reported
	// in match records. They default to each attempt's match columns.
	SourceIDColumn string
	TargetIDColumn string
	// ProteinRulePatterns overrides the protein-specific decoration table.
	ProteinRulePatterns []string
}

// MultiBridge tries an ordered list of bridges per source record, keeping the
// best-scoring target and short-circuiting on an exact-quality hit.
type MultiBridge struct {
	cfg   MultiBridgeConfig
	rules *similarity.ProteinRules
}

var _ Strategy = (*MultiBridge)(nil)

// NewMultiBridge validates the configuration and builds the cascade.
func NewMultiBridge(cfg MultiBridgeConfig) (*MultiBridge, error) {
	if len(cfg.Bridges) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup", "at least one bridge attempt is required", nil)
	}
	for i, attempt := range cfg.Bridges {
		if attempt.SourceColumn == "" || attempt.TargetColumn == "" {
			return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup",
				fmt.Sprintf("bridge %d (%s) needs source and target columns", i+1, attempt.Type), nil)
		}
		switch attempt.Method {
		case AttemptExact, AttemptFuzzy:
		default:
			return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup",
				fmt.Sprintf("bridge %d (%s) has unknown method %q", i+1, attempt.Type, attempt.Method), nil)
		}
		if attempt.ConfidenceThreshold < 0 || attempt.ConfidenceThreshold > 1 {
			return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup",
				fmt.Sprintf("bridge %d (%s) confidence_threshold outside 0-1", i+1, attempt.Type), nil)
		}
	}
	switch cfg.PartialMatchHandling {
	case "":
		cfg.PartialMatchHandling = PartialReject
	case PartialBestMatch, PartialReject, PartialWarn:
	default:
		return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup",
			"unknown partial_match_handling "+cfg.PartialMatchHandling, nil)
	}
	if cfg.MinOverallConfidence < 0 || cfg.MinOverallConfidence > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup", "min_overall_confidence outside 0-1", nil)
	}

	rules := similarity.DefaultProteinRules()
	if len(cfg.ProteinRulePatterns) > 0 {
		custom, err := similarity.NewProteinRules(cfg.ProteinRulePatterns)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "multi_bridge", "setup", "invalid protein rule pattern", err)
		}
		rules = custom
	}
	return &MultiBridge{cfg: cfg, rules: rules}, nil
}

// Name implements Strategy.
func (b *MultiBridge) Name() string { return "multi_bridge" }

// candidate is the best result a record has accumulated across bridges.
type candidate struct {
	targetRecord dataset.Record
	targetValue  string
	confidence   float64
	method       Method
	attempt      BridgeAttempt
	found        bool
}

// Match implements Strategy.
func (b *MultiBridge) Match(_ context.Context, source, reference *dataset.Dataset) Outcome {
	if source.Len() == 0 {
		return failure("source dataset is missing or empty")
	}
	if reference.Len() == 0 {
		return failure("reference dataset is missing or empty")
	}

	var (
		matches    []Record
		matchedIDs []string
		seen       = make(map[string]struct{})
		partials   int
	)
	for _, record := range source.Records {
		best := b.bestAcrossBridges(record, source, reference)
		if !best.found {
			continue
		}

		passes := best.confidence >= best.attempt.ConfidenceThreshold &&
			best.confidence >= b.cfg.MinOverallConfidence
		var warning string
		if !passes {
			switch b.cfg.PartialMatchHandling {
			case PartialReject:
				continue
			case PartialWarn:
				warning = fmt.Sprintf("confidence %.3f below threshold", best.confidence)
				partials++
			case PartialBestMatch:
				partials++
			}
		}

		sourceID := b.sourceID(record, best.attempt)
		targetID := b.targetID(best)
		details := map[string]string{
			"bridge": best.attempt.Type,
		}
		if warning != "" {
			details["warning"] = warning
		}
		matches = append(matches, Record{
			SourceID:   sourceID,
			TargetID:   targetID,
			Confidence: best.confidence,
			Method:     best.method,
			Details:    details,
		})
		if _, dup := seen[sourceID]; !dup {
			seen[sourceID] = struct{}{}
			matchedIDs = append(matchedIDs, sourceID)
		}
	}

	return Outcome{
		Success:          true,
		Message:          "multi bridge completed",
		Matches:          matches,
		MatchedSourceIDs: matchedIDs,
		Details: map[string]any{
			"bridges_configured": len(b.cfg.Bridges),
			"partial_matches":    partials,
		},
	}
}

// bestAcrossBridges runs the attempt list for one record, stopping early when
// a bridge produces an exact-quality hit.
func (b *MultiBridge) bestAcrossBridges(record dataset.Record, source, reference *dataset.Dataset) candidate {
	var best candidate
	for _, attempt := range b.cfg.Bridges {
		if !attempt.Enabled {
			continue
		}
		if !source.HasColumn(attempt.SourceColumn) || !reference.HasColumn(attempt.TargetColumn) {
			continue
		}
		sourceValue := strings.TrimSpace(record.Get(attempt.SourceColumn))
		if sourceValue == "" {
			continue
		}

		bridgeBest := b.bestForBridge(sourceValue, attempt, reference)
		if !bridgeBest.found {
			continue
		}
		if bridgeBest.confidence > best.confidence || !best.found {
			best = bridgeBest
		}
		if bridgeBest.confidence >= shortCircuitConfidence {
			// Exact-quality hit; later bridges are never attempted.
			break
		}
	}
	return best
}

// bestForBridge scores the source value against every reference record and
// keeps the best target for this bridge.
func (b *MultiBridge) bestForBridge(sourceValue string, attempt BridgeAttempt, reference *dataset.Dataset) candidate {
	best := candidate{attempt: attempt}
	for _, target := range reference.Records {
		targetValue := strings.TrimSpace(target.Get(attempt.TargetColumn))
		if targetValue == "" {
			continue
		}
		confidence, method := b.score(sourceValue, targetValue, attempt)
		if confidence > best.confidence || !best.found {
			if confidence <= 0 {
				continue
			}
			best = candidate{
				targetRecord: target,
				targetValue:  targetValue,
				confidence:   confidence,
				method:       method,
				attempt:      attempt,
				found:        true,
			}
			if confidence >= 1.0 {
				break
			}
		}
	}
	return best
}

// score computes the confidence for one source/target pair under the
// attempt's method. Exact comparison is normalized-string equality; fuzzy
// keeps the best of the ratio family and the protein-specific scorer.
func (b *MultiBridge) score(sourceValue, targetValue string, attempt BridgeAttempt) (float64, Method) {
	if attempt.Method == AttemptExact {
		if strings.EqualFold(sourceValue, targetValue) {
			return 1.0, MethodExact
		}
		return 0.0, MethodExact
	}

	best := similarity.Ratio(sourceValue, targetValue)
	method := MethodFuzzy
	if score := similarity.PartialRatio(sourceValue, targetValue); score > best {
		best = score
	}
	if score := similarity.TokenSortRatio(sourceValue, targetValue); score > best {
		best = score
	}
	if score := similarity.TokenSetRatio(sourceValue, targetValue); score > best {
		best = score
	}
	if score := similarity.ProteinRatio(sourceValue, targetValue, b.rules); score > best {
		best = score
		method = MethodProteinSpecific
	}
	return best, method
}

func (b *MultiBridge) sourceID(record dataset.Record, attempt BridgeAttempt) string {
	if b.cfg.SourceIDColumn != "" {
		if id := record.Get(b.cfg.SourceIDColumn); id != "" {
			return id
		}
	}
	return record.Get(attempt.SourceColumn)
}

func (b *MultiBridge) targetID(best candidate) string {
	if b.cfg.TargetIDColumn != "" {
		if id := best.targetRecord.Get(b.cfg.TargetIDColumn); id != "" {
			return id
		}
	}
	return best.targetValue
}
