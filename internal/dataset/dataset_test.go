package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"biobridge/internal/dataset"
	"biobridge/internal/services"
)

func sampleDataset(name string) *dataset.Dataset {
	ds := dataset.New(name, []string{"uniprot", "gene_symbol"})
	ds.Append(dataset.Record{"uniprot": "P12345", "gene_symbol": "ALB"})
	ds.Append(dataset.Record{"uniprot": "Q14213", "gene_symbol": "EBI3"})
	return ds
}

func TestDatasetColumnAccess(t *testing.T) {
	ds := sampleDataset("proteins")
	values, ok := ds.Column("uniprot")
	if !ok {
		t.Fatal("expected uniprot column to exist")
	}
	if len(values) != 2 || values[0] != "P12345" {
		t.Fatalf("unexpected column values: %v", values)
	}
	if _, ok := ds.Column("missing"); ok {
		t.Fatal("expected missing column lookup to fail")
	}
	if !ds.HasColumn("gene_symbol") {
		t.Fatal("expected gene_symbol column")
	}
}

func TestDatasetFilterDoesNotMutate(t *testing.T) {
	ds := sampleDataset("proteins")
	filtered := ds.Filter(func(r dataset.Record) bool { return r.Get("uniprot") == "P12345" })
	if filtered.Len() != 1 {
		t.Fatalf("expected 1 filtered record, got %d", filtered.Len())
	}
	if ds.Len() != 2 {
		t.Fatalf("filter mutated the source dataset: %d records", ds.Len())
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := dataset.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "absent"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	if err := store.Put(ctx, sampleDataset("proteins")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, err := store.Get(ctx, "proteins")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", got.Len())
	}

	infos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "proteins" || infos[0].Rows != 2 {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestMemoryStoreRejectsUnnamedDataset(t *testing.T) {
	store := dataset.NewMemoryStore()
	if err := store.Put(context.Background(), dataset.New("", nil)); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proteins.csv")
	content := "uniprot,gene_symbol\nP12345,ALB\nQ14213,EBI3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ds, err := dataset.LoadFile(path, "")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if ds.Name != "proteins" {
		t.Fatalf("expected name from filename, got %q", ds.Name)
	}
	if ds.Len() != 2 || ds.Records[1].Get("gene_symbol") != "EBI3" {
		t.Fatalf("unexpected records: %+v", ds.Records)
	}
}

func TestLoadFileTSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metabolites.tsv")
	content := "hmdb\tname\nHMDB0000122\tGlucose\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ds, err := dataset.LoadFile(path, "metabolites")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if ds.Len() != 1 || ds.Records[0].Get("hmdb") != "HMDB0000122" {
		t.Fatalf("unexpected records: %+v", ds.Records)
	}
}
