// Package migrate transforms spreadsheet export rows into normalized
// asset documents, reconciling departments against the directory service
// and accumulating the run-level mapping report.
package migrate

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/uisautomation/assetmigrate/pkg/documents"
	"github.com/uisautomation/assetmigrate/pkg/errors"
	"github.com/uisautomation/assetmigrate/pkg/logging"
)

// Source yields one SourceRow per input record. Next returns io.EOF when
// the input is exhausted; any other error is fatal to the run.
type Source interface {
	Next() (*documents.SourceRow, error)
}

// header prepares column names from a header record: surrounding
// whitespace is trimmed, empty names are synthesized so stray unnamed
// cells survive into the original row verbatim.
func header(record []string) []string {
	cols := make([]string, len(record))
	for i, name := range record {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		cols[i] = name
	}
	return cols
}

// rowFromRecord maps a data record onto header columns. Cells beyond the
// header are dropped; missing cells leave their column absent from the
// row so the normalizer can annotate the gap.
func rowFromRecord(columns, record []string, line int) *documents.SourceRow {
	row := documents.NewSourceRow()
	for i, col := range columns {
		if i >= len(record) {
			logging.Warn().
				Int("row", line).
				Str("column", col).
				Msg("Short row, column missing")
			continue
		}
		row.Set(col, record[i])
	}
	return row
}

// CSVSource reads rows from a CSV export. The export carries skipRows
// preamble rows before the header row, and skipCols leading columns of
// row labels before the data columns.
type CSVSource struct {
	reader   *csv.Reader
	columns  []string
	skipCols int
	line     int
}

// NewCSVSource prepares a CSV source, consuming the preamble and header.
func NewCSVSource(r io.Reader, skipRows, skipCols int) (*CSVSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width is checked per column, not per record

	for i := 0; i < skipRows; i++ {
		if _, err := cr.Read(); err != nil {
			return nil, errors.WrapParse("csv", "preamble", err)
		}
	}

	head, err := cr.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", "header", err)
	}
	if skipCols > len(head) {
		skipCols = len(head)
	}

	return &CSVSource{
		reader:   cr,
		columns:  header(head[skipCols:]),
		skipCols: skipCols,
	}, nil
}

// Columns returns the data column names.
func (s *CSVSource) Columns() []string {
	return s.columns
}

// Next returns the next data row or io.EOF.
func (s *CSVSource) Next() (*documents.SourceRow, error) {
	record, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.WrapParse("csv", "row", err)
	}
	s.line++

	if s.skipCols <= len(record) {
		record = record[s.skipCols:]
	} else {
		record = nil
	}
	return rowFromRecord(s.columns, record, s.line), nil
}

// XLSXSource reads rows from the first sheet of a spreadsheet workbook,
// so the institutional export can be fed in without a CSV conversion
// step. Header and skip conventions match CSVSource.
type XLSXSource struct {
	rows    [][]string
	columns []string
	next    int
	line    int
}

// NewXLSXSource opens a workbook and prepares its first sheet.
func NewXLSXSource(path string, skipRows, skipCols int) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &errors.ParseError{Format: "xlsx", File: path, Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	if skipRows >= len(rows) {
		return nil, &errors.ParseError{Format: "xlsx", File: path, Message: "no header row after preamble"}
	}
	rows = rows[skipRows:]

	head := rows[0]
	if skipCols > len(head) {
		skipCols = len(head)
	}
	columns := header(head[skipCols:])

	data := make([][]string, 0, len(rows)-1)
	for _, record := range rows[1:] {
		if skipCols <= len(record) {
			record = record[skipCols:]
		} else {
			record = nil
		}
		data = append(data, record)
	}

	return &XLSXSource{rows: data, columns: columns}, nil
}

// Columns returns the data column names.
func (s *XLSXSource) Columns() []string {
	return s.columns
}

// Next returns the next data row or io.EOF.
func (s *XLSXSource) Next() (*documents.SourceRow, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	record := s.rows[s.next]
	s.next++
	s.line++
	return rowFromRecord(s.columns, record, s.line), nil
}
