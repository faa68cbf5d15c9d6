package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
)

// ExcelOptions configures workbook generation.
type ExcelOptions struct {
	RowsSheet    string `json:"rows_sheet"`
	SummarySheet string `json:"summary_sheet"`
	FreezeHeader bool   `json:"freeze_header"`
	AutoFilter   bool   `json:"auto_filter"`
}

// DefaultExcelOptions returns the defaults used by the download endpoints.
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		RowsSheet:    "Rows",
		SummarySheet: "Summary",
		FreezeHeader: true,
		AutoFilter:   true,
	}
}

// WriteExcel renders the analysis as a two-sheet workbook: the classified
// row table and the campaign summary with format breakdown and scenarios.
func WriteExcel(w io.Writer, result *analysis.Result, opts ExcelOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", opts.RowsSheet)
	if _, err := f.NewSheet(opts.SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E8B8B"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRowsSheet(f, opts, headerStyle, result); err != nil {
		return err
	}
	if err := writeSummarySheet(f, opts, headerStyle, result); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRowsSheet(f *excelize.File, opts ExcelOptions, headerStyle int, result *analysis.Result) error {
	sheet := opts.RowsSheet

	for i, col := range rowColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, rec := range result.Rows {
		values := []interface{}{
			rec.Impressions, rec.Format, rec.CreativeWeightMB, rec.NetworkType,
			rec.DeviceFactor, rec.GridIntensity, rec.AdTechFactor,
			rec.NetworkGCO2, rec.GridGCO2, rec.AdTechGCO2, rec.TotalGCO2, rec.GCO2PM,
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if opts.FreezeHeader {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		})
	}
	if opts.AutoFilter && len(result.Rows) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(rowColumns))
		f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", lastCol), nil)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, opts ExcelOptions, headerStyle int, result *analysis.Result) error {
	sheet := opts.SummarySheet
	row := 1

	setRow := func(values ...interface{}) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}
	setHeader := func(values ...interface{}) {
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		setRow(values...)
		f.SetCellStyle(sheet, start, end, headerStyle)
	}

	setHeader("Metric", "Value")
	for _, kv := range summaryLines(result.Summary) {
		setRow(kv[0], kv[1])
	}

	row++
	setHeader("Format", "Impressions", "Emissions kg", "gCO2PM", "Share %")
	for _, fb := range result.Summary.Formats {
		setRow(fb.Format, fb.Impressions, fb.EmissionsKg, fb.GCO2PM, fb.EmissionShare*100)
	}

	row++
	setHeader("Scenario", "Reduction %", "Projected gCO2PM", "Saved kg")
	for _, sc := range result.Scenarios {
		setRow(sc.Name, sc.ReductionPct, sc.ProjectedGCO2PM, sc.SavedKg)
	}

	f.SetColWidth(sheet, "A", "A", 32)
	f.SetColWidth(sheet, "B", "E", 18)
	return nil
}
