package dataset

import (
	"context"
	"time"
)

// Record is one row of a tabular dataset: a mapping from column name to
// scalar value.
type Record map[string]string

// Get returns the value for a column, or the empty string when absent.
func (r Record) Get(column string) string {
	return r[column]
}

// Dataset is an ordered collection of uniformly-shaped records.
type Dataset struct {
	Name    string
	Columns []string
	Records []Record
}

// New creates an empty dataset with the given column set.
func New(name string, columns []string) *Dataset {
	return &Dataset{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// Append adds a record to the dataset.
func (d *Dataset) Append(record Record) {
	d.Records = append(d.Records, record)
}

// Len reports the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, column := range d.Columns {
		if column == name {
			return true
		}
	}
	return false
}

// Column returns every record's value for the named column, in record order.
// The second result is false when the column is not declared.
func (d *Dataset) Column(name string) ([]string, bool) {
	if !d.HasColumn(name) {
		return nil, false
	}
	values := make([]string, 0, len(d.Records))
	for _, record := range d.Records {
		values = append(values, record.Get(name))
	}
	return values, true
}

// Filter returns a new dataset containing the records for which keep returns
// true. The original dataset is not modified.
func (d *Dataset) Filter(keep func(Record) bool) *Dataset {
	filtered := New(d.Name, d.Columns)
	for _, record := range d.Records {
		if keep(record) {
			filtered.Append(record)
		}
	}
	return filtered
}

// Info summarizes a stored dataset for listings.
type Info struct {
	Name      string
	Rows      int
	Columns   int
	UpdatedAt time.Time
}

// Store is a mapping from string key to tabular dataset. The pipeline reads
// named input/reference datasets and writes named outputs by key without
// assuming a particular backend.
type Store interface {
	Get(ctx context.Context, name string) (*Dataset, error)
	Put(ctx context.Context, ds *Dataset) error
	List(ctx context.Context) ([]Info, error)
}
