package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a delimited text file into a dataset. The first row is the
// header. Tab-separated files are recognized by the .tsv and .tab extensions;
// everything else parses as comma-separated.
func LoadFile(path, name string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		reader.Comma = '\t'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset file %s is empty", path)
	}

	header := make([]string, 0, len(rows[0]))
	for _, column := range rows[0] {
		header = append(header, strings.TrimSpace(column))
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	ds := New(name, header)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = strings.TrimSpace(row[i])
			}
		}
		ds.Append(record)
	}
	return ds, nil
}

// SaveFile writes a dataset as delimited text, header first. The delimiter
// follows the target extension the same way LoadFile reads it.
func SaveFile(ds *Dataset, path string) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		writer.Comma = '\t'
	}

	if err := writer.Write(ds.Columns); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	row := make([]string, len(ds.Columns))
	for _, record := range ds.Records {
		for i, column := range ds.Columns {
			row[i] = record.Get(column)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write dataset row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush dataset file: %w", err)
	}
	return nil
}
