// Package report serialises extractor records as CSV and reads CSV tables back.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/evalview/internal/models"
	"github.com/starford/evalview/internal/parser"
)

// Report columns, in output order.
const (
	ColumnFileName           = "file-name"
	ColumnDescription        = "description"
	ColumnCharacterCount     = "character-count"
	ColumnCodeCharacterCount = "code-character-count"
	ColumnCodePercentage     = "code-percentage"
	ColumnCodeBlocks         = "number-of-code-blocks"
)

// Header is the mandatory first row of a report.
var Header = []string{
	ColumnFileName,
	ColumnDescription,
	ColumnCharacterCount,
	ColumnCodeCharacterCount,
	ColumnCodePercentage,
	ColumnCodeBlocks,
}

// ErrMissingColumn is returned when a parsed report lacks a header column.
var ErrMissingColumn = errors.New("report: missing column")

// Report is an ordered set of evaluation records, one per input document.
type Report []models.EvaluationRecord

// WriteCSV writes the header and one row per record to w. Rows end in "\r\n",
// byte-compatible with reports produced by earlier tooling.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}
	for _, rec := range r {
		if err := cw.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("report: write row %s: %w", rec.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Marshal returns the CSV encoding of r.
func Marshal(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordRow(rec models.EvaluationRecord) []string {
	return []string{
		rec.Identifier,
		rec.Description,
		strconv.Itoa(rec.CharacterCount),
		strconv.Itoa(rec.CodeCharacterCount),
		parser.FormatPercent(rec.CodePercentage),
		strconv.Itoa(rec.CodeBlockCount),
	}
}

// ParseCSV reads a report written by WriteCSV. Columns are located by name, so
// their order may differ; extra columns are ignored.
func ParseCSV(r io.Reader) (Report, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(Header))
	for _, col := range Header {
		i := table.ColumnIndex(col)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		idx[col] = i
	}

	out := make(Report, 0, len(table.Rows))
	for n, row := range table.Rows {
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("report: row %d: %w", n+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int) (models.EvaluationRecord, error) {
	var rec models.EvaluationRecord
	var err error
	rec.Identifier = row[idx[ColumnFileName]]
	rec.Description = row[idx[ColumnDescription]]
	if rec.CharacterCount, err = strconv.Atoi(row[idx[ColumnCharacterCount]]); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnCharacterCount, err)
	}
	if rec.CodeCharacterCount, err = strconv.Atoi(row[idx[ColumnCodeCharacterCount]]); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnCodeCharacterCount, err)
	}
	if rec.CodePercentage, err = strconv.ParseFloat(row[idx[ColumnCodePercentage]], 64); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnCodePercentage, err)
	}
	if rec.CodeBlockCount, err = strconv.Atoi(row[idx[ColumnCodeBlocks]]); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnCodeBlocks, err)
	}
	return rec, nil
}

// Table is a generic CSV table with a header row.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ReadTable parses CSV with a mandatory header row. Every row must have as many
// fields as the header.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("report: empty csv, header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("report: read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("report: read rows: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for n, row := range t.Rows {
		out[n] = row[i]
	}
	return out, true
}
