package match

import (
	"context"

	"biobridge/internal/dataset"
	"biobridge/internal/identifier"
	"biobridge/internal/services"
)

// versionStrippedConfidence scores matches found only after removing the
// version suffix. Exact matches always rank above it.
const versionStrippedConfidence = 0.95

// EnsemblConfig configures the Ensembl-ID bridge.
type EnsemblConfig struct {
	SourceColumn string
	TargetColumn string
	// SourceIDColumn and TargetIDColumn name the identifier columns reported
	// in match records. They default to the Ensembl columns.
	SourceIDColumn string
	TargetIDColumn string
	// StripVersions enables the version-stripped fallback lookup.
	StripVersions bool
	// ValidateFormat drops rows whose IDs fail the ENSP pattern.
	ValidateFormat bool
}

// EnsemblBridge matches Ensembl protein IDs exactly, falling back to a
// version-stripped comparison when enabled.
type EnsemblBridge struct {
	cfg EnsemblConfig
}

var _ Strategy = (*EnsemblBridge)(nil)

// NewEnsemblBridge validates the configuration and builds the bridge.
func NewEnsemblBridge(cfg EnsemblConfig) (*EnsemblBridge, error) {
	if cfg.SourceColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ensembl_bridge", "setup", "source_column is required", nil)
	}
	if cfg.TargetColumn == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ensembl_bridge", "setup", "target_column is required", nil)
	}
	if cfg.SourceIDColumn == "" {
		cfg.SourceIDColumn = cfg.SourceColumn
	}
	if cfg.TargetIDColumn == "" {
		cfg.TargetIDColumn = cfg.TargetColumn
	}
	return &EnsemblBridge{cfg: cfg}, nil
}

// Name implements Strategy.
func (b *EnsemblBridge) Name() string { return "ensembl_bridge" }

// Match implements Strategy.
func (b *EnsemblBridge) Match(_ context.Context, source, reference *dataset.Dataset) Outcome {
	if out := checkInputs(source, reference, b.cfg.SourceColumn, b.cfg.TargetColumn); out != nil {
		return *out
	}

	// Two reference lookups: exact string and version-stripped. Exact wins.
	exact := make(map[string]dataset.Record, reference.Len())
	stripped := make(map[string]dataset.Record, reference.Len())
	skippedReference := 0
	for _, record := range reference.Records {
		id := identifier.NormalizeEnsembl(record.Get(b.cfg.TargetColumn), false)
		if id == "" {
			continue
		}
		if b.cfg.ValidateFormat && !identifier.IsValidEnsemblProteinID(id) {
			skippedReference++
			continue
		}
		if _, ok := exact[id]; !ok {
			exact[id] = record
		}
		if b.cfg.StripVersions {
			bare := identifier.NormalizeEnsembl(id, true)
			if _, ok := stripped[bare]; !ok {
				stripped[bare] = record
			}
		}
	}

	var (
		matches    []Record
		matchedIDs []string
		seen       = make(map[string]struct{})
	)
	for _, record := range source.Records {
		id := identifier.NormalizeEnsembl(record.Get(b.cfg.SourceColumn), false)
		if id == "" {
			continue
		}
		if b.cfg.ValidateFormat && !identifier.IsValidEnsemblProteinID(id) {
			continue
		}
		sourceID := record.Get(b.cfg.SourceIDColumn)
		if sourceID == "" {
			sourceID = id
		}

		var (
			matched    dataset.Record
			confidence float64
			method     Method
			found      bool
		)
		if row, ok := exact[id]; ok {
			matched, confidence, method, found = row, 1.0, MethodExact, true
		} else if b.cfg.StripVersions {
			if row, ok := stripped[identifier.NormalizeEnsembl(id, true)]; ok {
				matched, confidence, method, found = row, versionStrippedConfidence, MethodVersionStripped, true
			}
		}
		if !found {
			continue
		}

		targetID := matched.Get(b.cfg.TargetIDColumn)
		if targetID == "" {
			targetID = identifier.NormalizeEnsembl(matched.Get(b.cfg.TargetColumn), false)
		}
		matches = append(matches, Record{
			SourceID:   sourceID,
			TargetID:   targetID,
			Confidence: confidence,
			Method:     method,
			Details:    map[string]string{"source_ensembl": id},
		})
		if _, dup := seen[sourceID]; !dup {
			seen[sourceID] = struct{}{}
			matchedIDs = append(matchedIDs, sourceID)
		}
	}

	return Outcome{
		Success:          true,
		Message:          "ensembl bridge completed",
		Matches:          matches,
		MatchedSourceIDs: matchedIDs,
		Details: map[string]any{
			"reference_ids_indexed":     len(exact),
			"reference_ids_skipped":     skippedReference,
			"version_stripped_fallback": b.cfg.StripVersions,
		},
	}
}
