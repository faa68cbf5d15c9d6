package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
)

// ReadExcel parses the first sheet of an .xlsx workbook.
func ReadExcel(r io.Reader) (*analysis.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(records)
}

// ReadFile dispatches on file extension: .xlsx goes to the Excel reader,
// everything else (.csv, .tsv, .txt) to the delimited reader.
func ReadFile(name string, r io.Reader) (*analysis.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadExcel(r)
	default:
		return ReadCSV(r)
	}
}
