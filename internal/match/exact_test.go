package match_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biobridge/internal/composite"
	"biobridge/internal/dataset"
	"biobridge/internal/match"
)

func idDataset(name, column string, ids ...string) *dataset.Dataset {
	ds := dataset.New(name, []string{column})
	for _, id := range ids {
		ds.Append(dataset.Record{column: id})
	}
	return ds
}

func TestExactBridgeCompositeSplitMatch(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{
		SourceColumn:      "uniprot",
		TargetColumn:      "uniprot",
		MatchMode:         match.ModeManyToMany,
		CompositeHandling: composite.PolicySplitAndMatch,
	})
	require.NoError(t, err)

	source := idDataset("source", "uniprot", "Q14213_Q8NEV9")
	reference := idDataset("reference", "uniprot", "Q14213", "P99999")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, "Q14213_Q8NEV9", outcome.Matches[0].SourceID)
	assert.Equal(t, "Q14213", outcome.Matches[0].TargetID)
	assert.Equal(t, match.MethodExact, outcome.Matches[0].Method)
	assert.Equal(t, 1.0, outcome.Matches[0].Confidence)
	assert.Equal(t, []string{"Q14213_Q8NEV9"}, outcome.MatchedSourceIDs)
}

func TestExactBridgeManyToManyEmitsAllPairs(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{
		SourceColumn:      "id",
		TargetColumn:      "id",
		MatchMode:         match.ModeManyToMany,
		CompositeHandling: composite.PolicySplitAndMatch,
	})
	require.NoError(t, err)

	// Both composites share component B with both targets that carry it.
	source := idDataset("source", "id", "A_B", "B_C")
	reference := idDataset("reference", "id", "B", "B_D")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	assert.Len(t, outcome.Matches, 4)
}

func TestExactBridgeOneToOneInjectivity(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{
		SourceColumn: "id",
		TargetColumn: "id",
		MatchMode:    match.ModeOneToOne,
	})
	require.NoError(t, err)

	source := idDataset("source", "id", "Z1", "A1", "M1")
	reference := idDataset("reference", "id", "A1", "M1", "Z1")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 3)

	consumed := map[string]int{}
	for _, m := range outcome.Matches {
		consumed[m.TargetID]++
	}
	for target, count := range consumed {
		assert.Equal(t, 1, count, "target %s consumed more than once", target)
	}
	// Lexicographic processing order makes the result deterministic.
	assert.Equal(t, "A1", outcome.Matches[0].SourceID)
}

func TestExactBridgeOneToOneSharedComponent(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{
		SourceColumn:      "id",
		TargetColumn:      "id",
		MatchMode:         match.ModeOneToOne,
		CompositeHandling: composite.PolicySplitAndMatch,
	})
	require.NoError(t, err)

	// Two sources compete for the same target component.
	source := idDataset("source", "id", "B_X", "A_B")
	reference := idDataset("reference", "id", "B")

	outcome := bridge.Match(context.Background(), source, reference)
	require.True(t, outcome.Success)
	require.Len(t, outcome.Matches, 1)
	// Sorted order: A_B wins over B_X.
	assert.Equal(t, "A_B", outcome.Matches[0].SourceID)
}

func TestExactBridgeMissingColumnIsFailureResult(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{SourceColumn: "uniprot", TargetColumn: "uniprot"})
	require.NoError(t, err)

	source := idDataset("source", "other", "P12345")
	reference := idDataset("reference", "uniprot", "P12345")

	outcome := bridge.Match(context.Background(), source, reference)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "uniprot")
	assert.Empty(t, outcome.Matches)
}

func TestExactBridgeEmptyDatasetIsFailureResult(t *testing.T) {
	bridge, err := match.NewExactBridge(match.ExactConfig{SourceColumn: "id", TargetColumn: "id"})
	require.NoError(t, err)

	outcome := bridge.Match(context.Background(), dataset.New("source", []string{"id"}), idDataset("reference", "id", "A"))
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Message, "empty")
}

func TestNewExactBridgeValidation(t *testing.T) {
	_, err := match.NewExactBridge(match.ExactConfig{TargetColumn: "id"})
	assert.Error(t, err)
	_, err = match.NewExactBridge(match.ExactConfig{SourceColumn: "id", TargetColumn: "id", MatchMode: "bogus"})
	assert.Error(t, err)
	_, err = match.NewExactBridge(match.ExactConfig{SourceColumn: "id", TargetColumn: "id", CompositeHandling: "bogus"})
	assert.Error(t, err)
}
