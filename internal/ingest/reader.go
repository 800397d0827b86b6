package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	apperrors "portocli/internal/errors"
)

// RawRow maps canonical column keys to trimmed cell strings for one
// statement row.
type RawRow map[string]string

// readGrid loads the statement at path into a uniform cell grid using the
// profile's format and delimiter.
func readGrid(path string, profile SourceProfile) ([][]string, error) {
	switch profile.Format {
	case FormatXLSX:
		return readXLSXGrid(path, profile.SheetIndex)
	default:
		return readCSVGrid(path, profile.Delimiter)
	}
}

// readCSVGrid reads a delimited text file into a grid. Bank exports are
// not reliably UTF-8; invalid byte streams are retried as Windows-1252 and
// then legacy Mac Roman before giving up.
func readCSVGrid(path string, delimiter rune) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read statement file", err).
			WithContext("file", path)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, apperrors.NewParsingError("statement file has unsupported text encoding", err).
			WithContext("file", path)
	}

	if delimiter == 0 {
		delimiter = ','
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to parse delimited statement", err).
			WithContext("file", path)
	}
	return rows, nil
}

// decodeText returns data as UTF-8, transcoding from Windows-1252 or Mac
// Roman when the raw bytes are not valid UTF-8.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return decoded, nil
	}
	return charmap.Macintosh.NewDecoder().Bytes(data)
}

// readXLSXGrid reads one worksheet of an Excel workbook into a grid.
func readXLSXGrid(path string, sheetIndex int) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("file", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("workbook has no sheet at index %d", sheetIndex), nil).
			WithContext("file", path).
			WithContext("sheets", len(sheets))
	}

	rows, err := f.GetRows(sheets[sheetIndex])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read worksheet rows", err).
			WithContext("file", path).
			WithContext("sheet", sheets[sheetIndex])
	}
	return rows, nil
}

// cellAt returns the trimmed cell at ref, or "" when the grid is shorter
// than the reference.
func cellAt(grid [][]string, ref CellRef) string {
	if ref.Row < 0 || ref.Row >= len(grid) {
		return ""
	}
	row := grid[ref.Row]
	if ref.Col < 0 || ref.Col >= len(row) {
		return ""
	}
	return trimCell(row[ref.Col])
}

// buildRawRow projects one grid row onto canonical column keys. Cells past
// the end of a short row read as empty.
func buildRawRow(row []string, cols map[string]int) RawRow {
	raw := make(RawRow, len(cols))
	for key, idx := range cols {
		if idx >= 0 && idx < len(row) {
			raw[key] = trimCell(row[idx])
		} else {
			raw[key] = ""
		}
	}
	return raw
}

// isEmptyRow reports whether every cell of the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if trimCell(cell) != "" {
			return false
		}
	}
	return true
}

// trimCell trims whitespace including the no-break spaces some bank
// exports pad cells with.
func trimCell(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}
