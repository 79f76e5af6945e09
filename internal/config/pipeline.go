package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// PipelineConfig describes one reconciliation run: the datasets involved and
// the ordered stages to execute.
type PipelineConfig struct {
	Name         string        `toml:"name"`
	Source       string        `toml:"source"`
	Reference    string        `toml:"reference"`
	FilterColumn string        `toml:"filter_column"`
	OutputPrefix string        `toml:"output_prefix"`
	Stages       []StageConfig `toml:"stages"`
}

// StageConfig is the declarative form of one pipeline stage. Fields beyond
// Number, Name, and Strategy are interpreted by the named strategy; unused
// ones are ignored.
type StageConfig struct {
	Number   int    `toml:"number"`
	Name     string `toml:"name"`
	Strategy string `toml:"strategy"`

	SourceColumn   string `toml:"source_column"`
	TargetColumn   string `toml:"target_column"`
	SourceIDColumn string `toml:"source_id_column"`
	TargetIDColumn string `toml:"target_id_column"`

	MatchMode         string `toml:"match_mode"`
	CompositeHandling string `toml:"composite_handling"`
	Delimiter         string `toml:"delimiter"`

	FuzzyEnabled bool `toml:"fuzzy_enabled"`
	// FuzzyThreshold is a pointer so an explicit 0 (accept any best score)
	// stays distinct from an unset value inheriting the matching default.
	FuzzyThreshold *float64 `toml:"fuzzy_threshold"`
	MinConfidence  float64  `toml:"min_confidence"`

	StripVersions  bool `toml:"strip_versions"`
	ValidateFormat bool `toml:"validate_format"`

	PartialMatchHandling string         `toml:"partial_match_handling"`
	ProteinRulePatterns  []string       `toml:"protein_rule_patterns"`
	Bridges              []BridgeConfig `toml:"bridges"`
}

// BridgeConfig is one attempt in a multi-bridge cascade.
type BridgeConfig struct {
	Type                string  `toml:"type"`
	SourceColumn        string  `toml:"source_column"`
	TargetColumn        string  `toml:"target_column"`
	Method              string  `toml:"method"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	Enabled             bool    `toml:"enabled"`
}

// knownStrategies lists the strategy names a pipeline file may reference.
var knownStrategies = map[string]struct{}{
	"exact_bridge":          {},
	"gene_symbol_bridge":    {},
	"ensembl_bridge":        {},
	"multi_bridge":          {},
	"historical_resolution": {},
}

// LoadPipeline reads and validates a pipeline definition file.
func LoadPipeline(path string) (*PipelineConfig, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open pipeline file: %w", err)
	}
	defer file.Close()

	var cfg PipelineConfig
	if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(cfg.Stages, func(i, j int) bool {
		return cfg.Stages[i].Number < cfg.Stages[j].Number
	})
	return &cfg, nil
}

func (p *PipelineConfig) validate() error {
	if strings.TrimSpace(p.Source) == "" {
		return fmt.Errorf("pipeline source dataset is required")
	}
	if strings.TrimSpace(p.Reference) == "" {
		return fmt.Errorf("pipeline reference dataset is required")
	}
	if strings.TrimSpace(p.FilterColumn) == "" {
		return fmt.Errorf("pipeline filter_column is required")
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("pipeline defines no stages")
	}
	seen := make(map[int]struct{}, len(p.Stages))
	for i, st := range p.Stages {
		if st.Number <= 0 {
			return fmt.Errorf("stage %d: number must be positive", i+1)
		}
		if _, dup := seen[st.Number]; dup {
			return fmt.Errorf("stage number %d appears more than once", st.Number)
		}
		seen[st.Number] = struct{}{}
		if _, ok := knownStrategies[st.Strategy]; !ok {
			return fmt.Errorf("stage %d: unknown strategy %q", st.Number, st.Strategy)
		}
	}
	return nil
}
