package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biobridge/internal/dataset"
	"biobridge/internal/match"
)

func geneDataset(name string, rows ...[2]string) *dataset.Dataset {
	ds := dataset.New(name, []string{"uniprot", "gene_symbol"})
	for _, row := range rows {
		ds.Append(dataset.Record{"uniprot": row[0], "gene_symbol": row[1]})
	}
	return ds
}

func TestGeneSymbolBridgeExactMatch(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   "gene_symbol",
		TargetColumn:   "gene_symbol",
		SourceIDColumn: "uniprot",
		TargetIDColumn: "uniprot",
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "myc"})
	reference := geneDataset("reference", [2]string{"P01106", "MYC"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, match.MethodExact, outcome.Matches[0].Method)
	assert.Equal(t, 1.0, outcome.Matches[0].Confidence)
	assert.Equal(t, "P01106", outcome.Matches[0].TargetID)
}

func TestGeneSymbolBridgeFuzzyFallback(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   "gene_symbol",
		TargetColumn:   "gene_symbol",
		FuzzyEnabled:   true,
		FuzzyThreshold: 70,
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "MYC"})
	reference := geneDataset("reference", [2]string{"X00001", "MYC-1"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, match.MethodFuzzy, outcome.Matches[0].Method)
	assert.Less(t, outcome.Matches[0].Confidence, 1.0)
	assert.GreaterOrEqual(t, outcome.Matches[0].Confidence, 0.70)
}

func TestGeneSymbolBridgeFuzzyRespectsThreshold(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   "gene_symbol",
		TargetColumn:   "gene_symbol",
		FuzzyEnabled:   true,
		FuzzyThreshold: 90,
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "MYC"})
	reference := geneDataset("reference", [2]string{"X00001", "MYC-1"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	assert.Empty(t, outcome.Matches)
}

func TestGeneSymbolBridgeZeroThresholdAcceptsAnyBestScore(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   "gene_symbol",
		TargetColumn:   "gene_symbol",
		FuzzyEnabled:   true,
		FuzzyThreshold: 0,
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "MYC"})
	reference := geneDataset("reference", [2]string{"X00001", "MYC-1"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, match.MethodFuzzy, outcome.Matches[0].Method)
}

func TestGeneSymbolBridgeFuzzyDisabled(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn: "gene_symbol",
		TargetColumn: "gene_symbol",
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "MYC"})
	reference := geneDataset("reference", [2]string{"X00001", "MYC-1"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	assert.Empty(t, outcome.Matches)
}

func TestGeneSymbolBridgeMinConfidenceGate(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn:   "gene_symbol",
		TargetColumn:   "gene_symbol",
		FuzzyEnabled:   true,
		FuzzyThreshold: 70,
		MinConfidence:  0.9,
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P01106", "MYC"})
	reference := geneDataset("reference", [2]string{"X00001", "MYC-1"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	assert.Empty(t, outcome.Matches, "0.75 fuzzy score should fail a 0.9 min_confidence gate")
}

func TestGeneSymbolBridgeSkipsNullSymbols(t *testing.T) {
	bridge, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn: "gene_symbol",
		TargetColumn: "gene_symbol",
	})
	require.NoError(t, err)

	source := geneDataset("source", [2]string{"P1", "nan"}, [2]string{"P2", ""}, [2]string{"P3", "TP53"})
	reference := geneDataset("reference", [2]string{"X1", "TP53"})

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, "TP53", outcome.Matches[0].Details["source_symbol"])
}

func TestNewGeneSymbolBridgeValidation(t *testing.T) {
	_, err := match.NewGeneSymbolBridge(match.GeneSymbolConfig{TargetColumn: "gene_symbol"})
	assert.Error(t, err)
	_, err = match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn: "a", TargetColumn: "b", FuzzyThreshold: 150,
	})
	assert.Error(t, err)
	_, err = match.NewGeneSymbolBridge(match.GeneSymbolConfig{
		SourceColumn: "a", TargetColumn: "b", MinConfidence: 1.5,
	})
	assert.Error(t, err)
}
