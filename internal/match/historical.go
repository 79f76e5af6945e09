package match

import (
	"context"
	"fmt"
	"strings"

	"biobridge/internal/dataset"
	"biobridge/internal/identifier"
	"biobridge/internal/resolver"
	"biobridge/internal/services"
)

// Resolution confidence by resolver status. Unknown valid statuses fall back
// to defaultResolutionConfidence.
const (
	demergedConfidence          = 0.90
	supersededConfidence        = 0.95
	defaultResolutionConfidence = 0.80
)

// Outcome detail keys for identifiers that produced no match.
const (
	detailUnresolved     = "unresolved"
	detailBelowThreshold = "below_threshold"
)

// HistoricalConfig configures the historical-ID resolution bridge.
type HistoricalConfig struct {
	SourceColumn string
	TargetColumn string
	// SourceIDColumn and TargetIDColumn name the identifier columns reported
	// in match records. They default to the match columns.
	SourceIDColumn string
	TargetIDColumn string
	// MinConfidence is a pass/fail gate: resolutions with a positive
	// confidence below it are reported as below_threshold.
	MinConfidence float64
}

// HistoricalBridge resolves outdated source accessions to their current
// primary IDs through an external resolver, then matches the resolved IDs
// against the reference dataset.
type HistoricalBridge struct {
	cfg      HistoricalConfig
	resolver resolver.Resolver
}

var _ Strategy = (*HistoricalBridge)(nil)

// NewHistoricalBridge validates the configuration and builds the bridge.
func NewHistoricalBridge(cfg HistoricalConfig, r resolver.Resolver) (*HistoricalBridge, error) {
	if cfg.SourceColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "historical_resolution", "setup", "source_column is required", nil)
	}
	if cfg.TargetColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "historical_resolution", "setup", "target_column is required", nil)
	}
	if r == nil {
		return nil, services.Wrap(services.ErrConfiguration, "historical_resolution", "setup", "resolver is required", nil)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "historical_resolution", "setup",
			fmt.Sprintf("min_confidence %v outside 0-1", cfg.MinConfidence), nil)
	}
	if cfg.SourceIDColumn == "" {
		cfg.SourceIDColumn = cfg.SourceColumn
	}
	if cfg.TargetIDColumn == "" {
		cfg.TargetIDColumn = cfg.TargetColumn
	}
	return &HistoricalBridge{cfg: cfg, resolver: r}, nil
}

// Name implements Strategy.
func (b *HistoricalBridge) Name() string { return "historical_resolution" }

// Match implements Strategy.
func (b *HistoricalBridge) Match(ctx context.Context, source, reference *dataset.Dataset) Outcome {
	if out := checkInputs(source, reference, b.cfg.SourceColumn, b.cfg.TargetColumn); out != nil {
		return *out
	}

	// Reference lookup by normalized accession.
	lookup := make(map[string]dataset.Record, reference.Len())
	for _, record := range reference.Records {
		id := identifier.NormalizeUniProt(record.Get(b.cfg.TargetColumn))
		if id == "" {
			continue
		}
		if _, ok := lookup[id]; !ok {
			lookup[id] = record
		}
	}

	type pending struct {
		record     dataset.Record
		sourceID   string
		normalized string
	}
	var order []pending
	requested := make(map[string]struct{})
	var ids []string
	for _, record := range source.Records {
		normalized := identifier.NormalizeUniProt(record.Get(b.cfg.SourceColumn))
		if normalized == "" {
			continue
		}
		sourceID := record.Get(b.cfg.SourceIDColumn)
		if sourceID == "" {
			sourceID = normalized
		}
		order = append(order, pending{record: record, sourceID: sourceID, normalized: normalized})
		if _, ok := requested[normalized]; !ok {
			requested[normalized] = struct{}{}
			ids = append(ids, normalized)
		}
	}
	if len(ids) == 0 {
		return failure("source dataset has no resolvable identifiers in column %q", b.cfg.SourceColumn)
	}

	resolved, err := b.resolver.ResolveBatch(ctx, ids)
	if err != nil {
		return failure("historical resolver unavailable: %v", err)
	}

	var (
		matches        []Record
		matchedIDs     []string
		seen           = make(map[string]struct{})
		unresolved     int
		belowThreshold int
	)
	for _, item := range order {
		resolution, ok := resolved[item.normalized]
		if !ok {
			unresolved++
			continue
		}
		confidence := statusConfidence(resolution.Status)
		if confidence == 0 {
			// Obsolete or failed lookups stay unresolved regardless of the
			// configured gate.
			unresolved++
			continue
		}
		if confidence < b.cfg.MinConfidence {
			belowThreshold++
			continue
		}

		for _, primary := range resolution.PrimaryIDs {
			target, found := lookup[identifier.NormalizeUniProt(primary)]
			if !found {
				continue
			}
			targetID := target.Get(b.cfg.TargetIDColumn)
			if targetID == "" {
				targetID = identifier.NormalizeUniProt(target.Get(b.cfg.TargetColumn))
			}
			matches = append(matches, Record{
				SourceID:   item.sourceID,
				TargetID:   targetID,
				Confidence: confidence,
				Method:     MethodResolveAndMatch,
				Details: map[string]string{
					"resolution_status": resolution.Status,
					"resolved_to":       primary,
				},
			})
			if _, dup := seen[item.sourceID]; !dup {
				seen[item.sourceID] = struct{}{}
				matchedIDs = append(matchedIDs, item.sourceID)
			}
		}
	}

	return Outcome{
		Success:          true,
		Message:          "historical resolution completed",
		Matches:          matches,
		MatchedSourceIDs: matchedIDs,
		Details: map[string]any{
			"identifiers_resolved": len(ids) - unresolved - belowThreshold,
			detailUnresolved:       unresolved,
			detailBelowThreshold:   belowThreshold,
			"resolved_identifiers": matchedIDs,
		},
	}
}

// statusConfidence maps resolver status strings to the fixed confidence
// table. Unknown but valid statuses default to 0.8.
func statusConfidence(status string) float64 {
	switch {
	case status == resolver.StatusPrimary, status == resolver.StatusReplaced:
		return 1.0
	case status == resolver.StatusSuperseded,
		strings.HasPrefix(status, resolver.StatusSecondaryPrefix):
		return supersededConfidence
	case status == resolver.StatusDemerged:
		return demergedConfidence
	case status == resolver.StatusObsolete,
		strings.HasPrefix(status, resolver.StatusErrorPrefix):
		return 0.0
	case status == "":
		return 0.0
	default:
		return defaultResolutionConfidence
	}
}
