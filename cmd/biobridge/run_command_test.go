package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"biobridge/internal/pipeline"
)

func TestDatasetsImportListShow(t *testing.T) {
	env := setupCLITestEnv(t)

	csvPath := filepath.Join(env.baseDir, "hits.csv")
	if err := os.WriteFile(csvPath, []byte("uniprot,gene_symbol\nP12345,TP53\nQ99999,MYC\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out, _, err := runCLI(t, []string{"datasets", "import", csvPath, "--name", "hits"}, env.configPath)
	if err != nil {
		t.Fatalf("datasets import: %v", err)
	}
	requireContains(t, out, "Imported 2 rows")

	out, _, err = runCLI(t, []string{"datasets", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("datasets list: %v", err)
	}
	requireContains(t, out, "hits")

	out, _, err = runCLI(t, []string{"datasets", "show", "hits"}, env.configPath)
	if err != nil {
		t.Fatalf("datasets show: %v", err)
	}
	requireContains(t, out, "P12345")

	if _, _, err = runCLI(t, []string{"datasets", "delete", "hits"}, env.configPath); err != nil {
		t.Fatalf("datasets delete: %v", err)
	}
	out, _, err = runCLI(t, []string{"datasets", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("datasets list after delete: %v", err)
	}
	requireContains(t, out, "Catalog is empty")
}

func TestRunPipelineEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	sourcePath := filepath.Join(env.baseDir, "source.csv")
	if err := os.WriteFile(sourcePath, []byte("uniprot\nP12345\nQ99999\nA00001\n"), 0o644); err != nil {
		t.Fatalf("write source csv: %v", err)
	}
	referencePath := filepath.Join(env.baseDir, "reference.csv")
	if err := os.WriteFile(referencePath, []byte("uniprot\nP12345\nQ99999\n"), 0o644); err != nil {
		t.Fatalf("write reference csv: %v", err)
	}

	if _, _, err := runCLI(t, []string{"datasets", "import", sourcePath, "--name", "source"}, env.configPath); err != nil {
		t.Fatalf("import source: %v", err)
	}
	if _, _, err := runCLI(t, []string{"datasets", "import", referencePath, "--name", "reference"}, env.configPath); err != nil {
		t.Fatalf("import reference: %v", err)
	}

	pipelinePath := filepath.Join(env.baseDir, "pipeline.toml")
	body := `
name = "smoke"
source = "source"
reference = "reference"
filter_column = "uniprot"
output_prefix = "matches"

[[stages]]
number = 1
name = "exact pass"
strategy = "exact_bridge"
source_column = "uniprot"
target_column = "uniprot"
`
	if err := os.WriteFile(pipelinePath, []byte(body), 0o644); err != nil {
		t.Fatalf("write pipeline file: %v", err)
	}

	out, _, err := runCLI(t, []string{"run", pipelinePath}, env.configPath)
	if err != nil {
		t.Fatalf("run pipeline: %v", err)
	}
	requireContains(t, out, "Matched 2 of 3 identifiers")
	requireContains(t, out, "exact_bridge")

	// The stage output dataset landed in the catalog.
	out, _, err = runCLI(t, []string{"datasets", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("datasets list: %v", err)
	}
	requireContains(t, out, "matches_1_exact_bridge")

	out, _, err = runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "exact_bridge")
	requireContains(t, out, "66.7%")

	exportPath := filepath.Join(env.baseDir, "exports", "matches.csv")
	out, _, err = runCLI(t, []string{"datasets", "export", "matches_1_exact_bridge", "--out", exportPath}, env.configPath)
	if err != nil {
		t.Fatalf("datasets export: %v", err)
	}
	requireContains(t, out, "Exported 2 rows")
	exported, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	requireContains(t, string(exported), "source_id,target_id,confidence,method")
	requireContains(t, string(exported), "P12345")

	out, _, err = runCLI(t, []string{"run", pipelinePath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("run pipeline --json: %v", err)
	}
	var report pipeline.RunReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode json report: %v\noutput: %s", err, out)
	}
	if report.TotalMatched != 2 || report.TotalUniverse != 3 {
		t.Fatalf("unexpected json report totals: %+v", report)
	}
}

func TestStatsWithoutRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"stats"}, env.configPath); err == nil {
		t.Fatal("expected error when no run statistics exist")
	}
}

func TestRunRequiresPipelineArgument(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err == nil {
		t.Fatal("expected error without pipeline file argument")
	}
}
