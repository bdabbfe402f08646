package documents

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// SourceRow is an ordered mapping of column name to raw cell value, one
// per input record. It is preserved verbatim inside the asset document so
// operators can reconcile degraded records by hand. Column order follows
// the source header.
type SourceRow struct {
	columns []string
	values  map[string]string
}

// NewSourceRow returns an empty source row.
func NewSourceRow() *SourceRow {
	return &SourceRow{values: make(map[string]string)}
}

// Set records a column value, appending the column to the order on first
// sight.
func (r *SourceRow) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value for a column and whether the column is present.
func (r *SourceRow) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in source order.
func (r *SourceRow) Columns() []string {
	return r.columns
}

// Len returns the number of columns.
func (r *SourceRow) Len() int {
	return len(r.columns)
}

// MarshalYAML emits the row as a YAML mapping in column order.
func (r *SourceRow) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(r.columns))
	for _, col := range r.columns {
		ms = append(ms, yaml.MapItem{Key: col, Value: r.values[col]})
	}
	return ms, nil
}

// UnmarshalYAML restores the row from a YAML mapping, preserving key order.
func (r *SourceRow) UnmarshalYAML(data []byte) error {
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(data, &ms); err != nil {
		return err
	}
	r.columns = r.columns[:0]
	r.values = make(map[string]string, len(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		value := ""
		if item.Value != nil {
			value = fmt.Sprint(item.Value)
		}
		r.Set(key, value)
	}
	return nil
}
