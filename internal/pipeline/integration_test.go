package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biobridge/internal/config"
	"biobridge/internal/logging"
	"biobridge/internal/pipeline"
	"biobridge/internal/resolver"
	"biobridge/internal/testsupport"
)

// Runs a pipeline loaded from a TOML file against a SQLite-backed catalog,
// the same wiring the CLI uses.
func TestRunFromPipelineFileWithCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	catalog := testsupport.MustOpenCatalog(t, cfg)

	testsupport.SeedDataset(t, catalog, "screen_hits", []string{"uniprot"},
		[]string{"P12345"}, []string{"Q99999"}, []string{"A00001"})
	testsupport.SeedDataset(t, catalog, "reference", []string{"uniprot"},
		[]string{"P12345"}, []string{"Q99999"})

	pipelinePath := filepath.Join(testsupport.BaseDir(cfg), "pipeline.toml")
	testsupport.WriteFile(t, pipelinePath, `
name = "catalog smoke"
source = "screen_hits"
reference = "reference"
filter_column = "uniprot"
output_prefix = "bridged"

[[stages]]
number = 1
strategy = "exact_bridge"
source_column = "uniprot"
target_column = "uniprot"
`)

	pcfg, err := config.LoadPipeline(pipelinePath)
	require.NoError(t, err)
	stages, err := pipeline.BuildStages(pcfg, pipeline.BuildDeps{Defaults: cfg.Matching})
	require.NoError(t, err)

	orch, err := pipeline.New(catalog, logging.NewNop())
	require.NoError(t, err)
	for _, stage := range stages {
		require.NoError(t, orch.AddStage(stage))
	}

	report, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalMatched)
	assert.Equal(t, 3, report.TotalUniverse)
	assert.Equal(t, 1, report.Unmatched)

	stored, err := catalog.Get(context.Background(), "bridged_1_exact_bridge")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Len())
	assert.Equal(t, []string{"source_id", "target_id", "confidence", "method"}, stored.Columns)
}

// Exercises a historical_resolution stage against a stubbed UniProt endpoint:
// Q00001 was merged into P12345, which the reference carries.
func TestRunHistoricalStageAgainstStubbedResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{
			"primaryAccession":"Q00001",
			"entryType":"Inactive",
			"inactiveReason":{"inactiveReasonType":"MERGED","mergeDemergeTo":["P12345"]}
		}]}`))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithResolver(server.URL))
	catalog := testsupport.MustOpenCatalog(t, cfg)

	testsupport.SeedDataset(t, catalog, "legacy_hits", []string{"uniprot"},
		[]string{"Q00001"})
	testsupport.SeedDataset(t, catalog, "reference", []string{"uniprot"},
		[]string{"P12345"})

	res, err := resolver.New(cfg.Resolver.BaseURL, cfg.Resolver.Contact)
	require.NoError(t, err)

	pipelinePath := filepath.Join(testsupport.BaseDir(cfg), "pipeline.toml")
	testsupport.WriteFile(t, pipelinePath, `
name = "historical"
source = "legacy_hits"
reference = "reference"
filter_column = "uniprot"

[[stages]]
number = 1
strategy = "historical_resolution"
source_column = "uniprot"
target_column = "uniprot"
`)

	pcfg, err := config.LoadPipeline(pipelinePath)
	require.NoError(t, err)
	stages, err := pipeline.BuildStages(pcfg, pipeline.BuildDeps{
		Resolver: res,
		Defaults: cfg.Matching,
	})
	require.NoError(t, err)

	orch, err := pipeline.New(catalog, logging.NewNop())
	require.NoError(t, err)
	for _, stage := range stages {
		require.NoError(t, orch.AddStage(stage))
	}

	report, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Stages, 1)
	assert.True(t, report.Stages[0].Success)
	assert.Equal(t, 1, report.TotalMatched)
	assert.Equal(t, 0, report.Unmatched)
}
