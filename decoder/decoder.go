// Package decoder turns uploaded spreadsheet, CSV, and PDF bytes into a
// uniform header-plus-rows table for the transform cores.
package decoder

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is decoded tabular data: a header row and data rows of raw strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Decode sniffs the payload and dispatches to the right decoder: xlsx by
// magic bytes, PDF by extension or magic, CSV otherwise.
func Decode(data []byte, filename string) (*Table, error) {
	switch {
	case isExcel(data):
		return DecodeXLSX(data)
	case isPDF(data) || strings.EqualFold(filepath.Ext(filename), ".pdf"):
		rows, err := DecodePDFRows(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		table := &Table{}
		for _, line := range rows {
			table.Rows = append(table.Rows, []string{line})
		}
		return table, nil
	default:
		return DecodeCSV(data)
	}
}

// DecodeCSV parses CSV bytes; the first record is the header.
func DecodeCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Columns: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}

	return table, nil
}

// DecodeXLSX parses the first sheet of an Excel workbook; the first row is
// the header.
func DecodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Columns: header}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}

	return table, nil
}

// DecodeText reads template or mapping text bytes as a string.
func DecodeText(data []byte) string {
	return string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

// RawRows returns the decoded rows with the header row back in front, for
// consumers that handle headers themselves (the bank format registry knows
// per format whether a header row is present).
func (t *Table) RawRows() [][]string {
	if len(t.Columns) == 0 {
		return t.Rows
	}
	return append([][]string{t.Columns}, t.Rows...)
}

// padRow truncates or pads a row to the header width so downstream code can
// rely on row length.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			out[i] = strings.TrimSpace(row[i])
		}
	}
	return out
}

// isExcel checks magic bytes for xlsx (ZIP) or legacy xls (OLE2).
func isExcel(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return true
	}
	return data[0] == 0xD0 && data[1] == 0xCF && data[2] == 0x11 && data[3] == 0xE0
}

func isPDF(data []byte) bool {
	return len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-"))
}
