// Package spreadsheet turns uploaded workbook buffers into ordered rows of
// string-keyed cells. Column semantics are not interpreted here; the
// ingestion service owns alias resolution.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one sheet row keyed by header cell. Values are raw strings as they
// appeared in the sheet; numeric coercion happens downstream.
type Row map[string]any

// ReadWorkbook parses the first sheet of an xlsx buffer. The first row is
// the header; every following row becomes a Row keyed by it. Rows shorter
// than the header are padded with empty strings by omission.
func ReadWorkbook(data []byte) ([]Row, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return rowsFromCells(rows), nil
}

// ReadCSV parses a comma-separated buffer with the same header contract as
// ReadWorkbook.
func ReadCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cells [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		cells = append(cells, record)
	}

	return rowsFromCells(cells), nil
}

func rowsFromCells(cells [][]string) []Row {
	if len(cells) == 0 {
		return nil
	}

	header := make([]string, len(cells[0]))
	for i, cell := range cells[0] {
		header[i] = strings.TrimSpace(cell)
	}

	out := make([]Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		if isBlankLine(line) {
			continue
		}
		row := make(Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(line) {
				row[key] = line[i]
			} else {
				row[key] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func isBlankLine(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
