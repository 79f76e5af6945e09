package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biobridge/internal/dataset"
	"biobridge/internal/match"
)

func ensemblDataset(name string, ids ...string) *dataset.Dataset {
	ds := dataset.New(name, []string{"ensembl_protein"})
	for _, id := range ids {
		ds.Append(dataset.Record{"ensembl_protein": id})
	}
	return ds
}

func TestEnsemblBridgeExactMatch(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn: "ensembl_protein",
		TargetColumn: "ensembl_protein",
	})
	require.NoError(t, err)

	outcome := bridge.Match(context.Background(),
		ensemblDataset("source", "ENSP00000269305"),
		ensemblDataset("reference", "ENSP00000269305"))
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, match.MethodExact, outcome.Matches[0].Method)
	assert.Equal(t, 1.0, outcome.Matches[0].Confidence)
}

func TestEnsemblBridgeVersionStrippedFallback(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn:  "ensembl_protein",
		TargetColumn:  "ensembl_protein",
		StripVersions: true,
	})
	require.NoError(t, err)

	outcome := bridge.Match(context.Background(),
		ensemblDataset("source", "ENSP00000269305.1"),
		ensemblDataset("reference", "ENSP00000269305"))
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, match.MethodVersionStripped, outcome.Matches[0].Method)
	assert.Equal(t, 0.95, outcome.Matches[0].Confidence)
}

func TestEnsemblBridgeNoFallbackWithoutStripVersions(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn: "ensembl_protein",
		TargetColumn: "ensembl_protein",
	})
	require.NoError(t, err)

	outcome := bridge.Match(context.Background(),
		ensemblDataset("source", "ENSP00000269305.1"),
		ensemblDataset("reference", "ENSP00000269305"))
	require.True(t, outcome.Success)
	assert.Empty(t, outcome.Matches)
}

func TestEnsemblBridgeConfidenceOrdering(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn:  "ensembl_protein",
		TargetColumn:  "ensembl_protein",
		StripVersions: true,
	})
	require.NoError(t, err)

	source := ensemblDataset("source", "ENSP00000269305", "ENSP00000354587.2")
	reference := ensemblDataset("reference", "ENSP00000269305", "ENSP00000354587")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 2)

	byMethod := map[match.Method]float64{}
	for _, m := range outcome.Matches {
		byMethod[m.Method] = m.Confidence
	}
	assert.Greater(t, byMethod[match.MethodExact], byMethod[match.MethodVersionStripped])
}

func TestEnsemblBridgeValidateFormatSkipsMalformedIDs(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn:   "ensembl_protein",
		TargetColumn:   "ensembl_protein",
		ValidateFormat: true,
	})
	require.NoError(t, err)

	source := ensemblDataset("source", "not-an-id", "ENSP00000269305")
	reference := ensemblDataset("reference", "not-an-id", "ENSP00000269305")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, 1, outcome.Details["reference_ids_skipped"])
}

func TestEnsemblBridgeSkipsNullIDs(t *testing.T) {
	bridge, err := match.NewEnsemblBridge(match.EnsemblConfig{
		SourceColumn: "ensembl_protein",
		TargetColumn: "ensembl_protein",
	})
	require.NoError(t, err)

	source := ensemblDataset("source", "", "nan", "ENSP00000269305")
	reference := ensemblDataset("reference", "ENSP00000269305")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	assert.Len(t, outcome.Matches, 1)
}
