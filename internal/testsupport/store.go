package testsupport

import (
	"context"
	"testing"

	"biobridge/internal/config"
	"biobridge/internal/dataset"
)

// MustOpenCatalog opens a dataset catalog for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *dataset.Catalog {
	t.Helper()

	catalog, err := dataset.OpenCatalog(cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("dataset.OpenCatalog: %v", err)
	}
	t.Cleanup(func() {
		catalog.Close()
	})
	return catalog
}

// SeedDataset stores a dataset built from column names and rows.
func SeedDataset(t testing.TB, store dataset.Store, name string, columns []string, rows ...[]string) *dataset.Dataset {
	t.Helper()

	ds := dataset.New(name, columns)
	for _, row := range rows {
		record := make(dataset.Record, len(columns))
		for i, column := range columns {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		ds.Append(record)
	}
	if err := store.Put(context.Background(), ds); err != nil {
		t.Fatalf("store.Put(%s): %v", name, err)
	}
	return ds
}
