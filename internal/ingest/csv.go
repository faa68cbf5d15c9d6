// Package ingest reads platform report exports (CSV, Excel) into the
// rectangular dataset the analysis pipeline consumes. Parsing stops at the
// dataset boundary: no interpretation of cell values happens here.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
)

// ErrEmptyFile indicates the upload held no header row.
var ErrEmptyFile = errors.New("file contains no data")

// csvDelimiters are the separators platform exports use, in sniff order.
var csvDelimiters = []rune{',', ';', '\t'}

// ReadCSV parses a delimited text export. The delimiter is sniffed from the
// header line; the first row is the header; short rows are padded so every
// row is rectangular.
func ReadCSV(r io.Reader) (*analysis.Dataset, error) {
	buffered := bufio.NewReader(r)
	headerLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sniffDelimiter(string(headerLine))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return fromRecords(records)
}

// sniffDelimiter picks the delimiter with the most occurrences on the first
// line, defaulting to comma.
func sniffDelimiter(header string) rune {
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	best := ','
	bestCount := 0
	for _, d := range csvDelimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// fromRecords turns raw records into a Dataset, treating the first record
// as the header and padding short rows.
func fromRecords(records [][]string) (*analysis.Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return analysis.NewDataset(columns, rows), nil
}
