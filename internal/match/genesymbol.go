package match

import (
	"context"
	"fmt"

	"biobridge/internal/dataset"
	"biobridge/internal/identifier"
	"biobridge/internal/services"
	"biobridge/internal/similarity"
)

// GeneSymbolConfig configures the gene-symbol bridge.
type GeneSymbolConfig struct {
	// SourceColumn and TargetColumn hold the gene symbols on each side.
	SourceColumn string
	TargetColumn string
	// SourceIDColumn and TargetIDColumn name the identifier columns reported
	// in match records. They default to the symbol columns.
	SourceIDColumn string
	TargetIDColumn string
	// FuzzyEnabled allows a similarity fallback when no exact symbol match
	// exists. FuzzyThreshold is on the external 0-100 scale; zero accepts
	// any best-scoring candidate.
	FuzzyEnabled   bool
	FuzzyThreshold float64
	// MinConfidence gates emitted matches on the internal 0-1 scale.
	MinConfidence float64
}

// GeneSymbolBridge matches records by normalized gene symbol, with an
// optional fuzzy fallback over the reference symbol set.
type GeneSymbolBridge struct {
	cfg GeneSymbolConfig
}

var _ Strategy = (*GeneSymbolBridge)(nil)

// NewGeneSymbolBridge validates the configuration and builds the bridge.
func NewGeneSymbolBridge(cfg GeneSymbolConfig) (*GeneSymbolBridge, error) {
	if cfg.SourceColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gene_symbol_bridge", "setup", "source_column is required", nil)
	}
	if cfg.TargetColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gene_symbol_bridge", "setup", "target_column is required", nil)
	}
	if cfg.FuzzyThreshold < 0 || cfg.FuzzyThreshold > 100 {
		return nil, services.Wrap(services.ErrConfiguration, "gene_symbol_bridge", "setup",
			fmt.Sprintf("fuzzy_threshold %v outside 0-100", cfg.FuzzyThreshold), nil)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, services.Wrap(services.ErrConfiguration, "gene_symbol_bridge", "setup",
			fmt.Sprintf("min_confidence %v outside 0-1", cfg.MinConfidence), nil)
	}
	if cfg.SourceIDColumn == "" {
		cfg.SourceIDColumn = cfg.SourceColumn
	}
	if cfg.TargetIDColumn == "" {
		cfg.TargetIDColumn = cfg.TargetColumn
	}
	return &GeneSymbolBridge{cfg: cfg}, nil
}

// Name implements Strategy.
func (b *GeneSymbolBridge) Name() string { return "gene_symbol_bridge" }

// Match implements Strategy.
func (b *GeneSymbolBridge) Match(_ context.Context, source, reference *dataset.Dataset) Outcome {
	if out := checkInputs(source, reference, b.cfg.SourceColumn, b.cfg.TargetColumn); out != nil {
		return *out
	}

	// Reference lookup: normalized symbol -> rows carrying it, preserving
	// first-seen key order for deterministic fuzzy tie-breaking.
	lookup := make(map[string][]dataset.Record, reference.Len())
	var symbolOrder []string
	for _, record := range reference.Records {
		symbol := identifier.NormalizeGeneSymbol(record.Get(b.cfg.TargetColumn))
		if symbol == "" {
			continue
		}
		if _, ok := lookup[symbol]; !ok {
			symbolOrder = append(symbolOrder, symbol)
		}
		lookup[symbol] = append(lookup[symbol], record)
	}

	var (
		matches    []Record
		matchedIDs []string
		seen       = make(map[string]struct{})
		fuzzyCount int
	)
	for _, record := range source.Records {
		symbol := identifier.NormalizeGeneSymbol(record.Get(b.cfg.SourceColumn))
		if symbol == "" {
			continue
		}
		sourceID := record.Get(b.cfg.SourceIDColumn)
		if sourceID == "" {
			sourceID = symbol
		}

		if rows, ok := lookup[symbol]; ok {
			m := b.emit(sourceID, symbol, symbol, rows[0], 1.0, MethodExact)
			matches = append(matches, m)
			if _, dup := seen[sourceID]; !dup {
				seen[sourceID] = struct{}{}
				matchedIDs = append(matchedIDs, sourceID)
			}
			continue
		}

		if !b.cfg.FuzzyEnabled {
			continue
		}
		bestSymbol, bestScore := "", 0.0
		for _, candidate := range symbolOrder {
			// Strictly-greater keeps the first symbol encountered at the
			// highest score.
			if score := similarity.Ratio(symbol, candidate); score > bestScore {
				bestScore = score
				bestSymbol = candidate
			}
		}
		if bestSymbol == "" {
			continue
		}
		if bestScore*100 < b.cfg.FuzzyThreshold || bestScore < b.cfg.MinConfidence {
			continue
		}
		fuzzyCount++
		m := b.emit(sourceID, symbol, bestSymbol, lookup[bestSymbol][0], bestScore, MethodFuzzy)
		matches = append(matches, m)
		if _, dup := seen[sourceID]; !dup {
			seen[sourceID] = struct{}{}
			matchedIDs = append(matchedIDs, sourceID)
		}
	}

	return Outcome{
		Success:          true,
		Message:          "gene symbol bridge completed",
		Matches:          matches,
		MatchedSourceIDs: matchedIDs,
		Details: map[string]any{
			"fuzzy_matches":     fuzzyCount,
			"reference_symbols": len(symbolOrder),
		},
	}
}

func (b *GeneSymbolBridge) emit(sourceID, sourceSymbol, targetSymbol string, row dataset.Record, confidence float64, method Method) Record {
	targetID := row.Get(b.cfg.TargetIDColumn)
	if targetID == "" {
		targetID = targetSymbol
	}
	return Record{
		SourceID:   sourceID,
		TargetID:   targetID,
		Confidence: confidence,
		Method:     method,
		Details: map[string]string{
			"source_symbol": sourceSymbol,
			"target_symbol": targetSymbol,
		},
	}
}
