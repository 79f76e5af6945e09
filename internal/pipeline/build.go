package pipeline

import (
	"fmt"

	"biobridge/internal/composite"
	"biobridge/internal/config"
	"biobridge/internal/match"
	"biobridge/internal/resolver"
	"biobridge/internal/services"
)

// BuildDeps carries the shared dependencies strategy construction needs.
type BuildDeps struct {
	// Resolver backs historical_resolution stages. May be nil when no such
	// stage is configured.
	Resolver resolver.Resolver
	// Defaults fills in stage settings the pipeline file leaves unset.
	Defaults config.Matching
}

type strategyFactory func(st config.StageConfig, deps BuildDeps) (match.Strategy, error)

// strategyFactories maps pipeline strategy names to constructors. An explicit
// map keeps the set of runnable strategies obvious and greppable.
var strategyFactories = map[string]strategyFactory{
	"exact_bridge":          buildExactBridge,
	"gene_symbol_bridge":    buildGeneSymbolBridge,
	"ensembl_bridge":        buildEnsemblBridge,
	"multi_bridge":          buildMultiBridge,
	"historical_resolution": buildHistoricalBridge,
}

// BuildStages turns a validated pipeline definition into orchestrator stages.
func BuildStages(pcfg *config.PipelineConfig, deps BuildDeps) ([]Stage, error) {
	stages := make([]Stage, 0, len(pcfg.Stages))
	for _, st := range pcfg.Stages {
		factory, ok := strategyFactories[st.Strategy]
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "build",
				fmt.Sprintf("stage %d: unknown strategy %q", st.Number, st.Strategy), nil)
		}
		applyDefaults(&st, deps.Defaults)
		// Matched source IDs feed the exclusion set, which is keyed by the
		// pipeline filter column. Without an explicit source_id_column a
		// strategy would report IDs from its own match column and its
		// matches would never be excluded from later stages.
		if st.SourceIDColumn == "" {
			st.SourceIDColumn = pcfg.FilterColumn
		}
		strategy, err := factory(st, deps)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "build",
				fmt.Sprintf("stage %d (%s)", st.Number, st.Strategy), err)
		}
		outputKey := ""
		if pcfg.OutputPrefix != "" {
			outputKey = fmt.Sprintf("%s_%d_%s", pcfg.OutputPrefix, st.Number, st.Strategy)
		}
		stages = append(stages, Stage{
			Number:           st.Number,
			Name:             st.Name,
			Strategy:         strategy,
			SourceDataset:    pcfg.Source,
			ReferenceDataset: pcfg.Reference,
			FilterColumn:     pcfg.FilterColumn,
			OutputKey:        outputKey,
		})
	}
	return stages, nil
}

func applyDefaults(st *config.StageConfig, defaults config.Matching) {
	if st.FuzzyThreshold == nil {
		threshold := defaults.FuzzyThreshold
		st.FuzzyThreshold = &threshold
	}
	if st.MinConfidence == 0 {
		st.MinConfidence = defaults.MinConfidence
	}
	if st.CompositeHandling == "" {
		st.CompositeHandling = defaults.CompositeHandling
	}
	if st.Delimiter == "" {
		st.Delimiter = defaults.CompositeDelimiter
	}
	if st.PartialMatchHandling == "" {
		st.PartialMatchHandling = defaults.PartialMatchHandling
	}
	if !st.StripVersions {
		st.StripVersions = defaults.StripVersions
	}
}

func buildExactBridge(st config.StageConfig, _ BuildDeps) (match.Strategy, error) {
	return match.NewExactBridge(match.ExactConfig{
		SourceColumn:      st.SourceColumn,
		TargetColumn:      st.TargetColumn,
		MatchMode:         st.MatchMode,
		CompositeHandling: composite.Policy(st.CompositeHandling),
		Delimiter:         st.Delimiter,
	})
}

func buildGeneSymbolBridge(st config.StageConfig, _ BuildDeps) (match.Strategy, error) {
	return match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   st.SourceColumn,
		TargetColumn:   st.TargetColumn,
		SourceIDColumn: st.SourceIDColumn,
		TargetIDColumn: st.TargetIDColumn,
		FuzzyEnabled:   st.FuzzyEnabled,
		FuzzyThreshold: *st.FuzzyThreshold,
		MinConfidence:  st.MinConfidence,
	})
}

func buildEnsemblBridge(st config.StageConfig, _ BuildDeps) (match.Strategy, error) {
	return match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn:   st.SourceColumn,
		TargetColumn:   st.TargetColumn,
		SourceIDColumn: st.SourceIDColumn,
		TargetIDColumn: st.TargetIDColumn,
		StripVersions:  st.StripVersions,
		ValidateFormat: st.ValidateFormat,
	})
}

func buildMultiBridge(st config.StageConfig, _ BuildDeps) (match.Strategy, error) {
	bridges := make([]match.BridgeAttempt, 0, len(st.Bridges))
	for _, b := range st.Bridges {
		bridges = append(bridges, match.BridgeAttempt{
			Type:                b.Type,
			SourceColumn:        b.SourceColumn,
			TargetColumn:        b.TargetColumn,
			Method:              b.Method,
			ConfidenceThreshold: b.ConfidenceThreshold,
			Enabled:             b.Enabled,
		})
	}
	return match.NewMultiBridge(match.MultiBridgeConfig{
		Bridges:              bridges,
		MinOverallConfidence: st.MinConfidence,
		PartialMatchHandling: st.PartialMatchHandling,
		SourceIDColumn:       st.SourceIDColumn,
		TargetIDColumn:       st.TargetIDColumn,
		ProteinRulePatterns:  st.ProteinRulePatterns,
	})
}

func buildHistoricalBridge(st config.StageConfig, deps BuildDeps) (match.Strategy, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("historical_resolution requires a resolver; enable [resolver] in the configuration")
	}
	return match.NewHistoricalBridge(match.HistoricalConfig{
		SourceColumn:   st.SourceColumn,
		TargetColumn:   st.TargetColumn,
		SourceIDColumn: st.SourceIDColumn,
		TargetIDColumn: st.TargetIDColumn,
		MinConfidence:  st.MinConfidence,
	}, deps.Resolver)
}
