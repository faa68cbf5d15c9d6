// Package export renders finished analyses for download: the classified row
// table as CSV or Excel, and the campaign summary as a PDF report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
)

// rowColumns is the fixed column order of the classified-row table in every
// export surface.
var rowColumns = []string{
	"Impressions", "Format", "Creative Weight MB", "Network Type",
	"Device Factor", "Grid Intensity", "AdTech Factor",
	"Network gCO2", "Grid gCO2", "AdTech gCO2", "Total gCO2", "gCO2PM",
}

// CSVOptions configures CSV export behavior.
type CSVOptions struct {
	Delimiter      rune `json:"delimiter"`
	UseCRLF        bool `json:"use_crlf"`
	IncludeSummary bool `json:"include_summary"`
}

// DefaultCSVOptions returns the defaults used by the download endpoints.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', IncludeSummary: true}
}

// WriteCSV writes the classified rows, optionally followed by a blank line
// and a key/value summary block.
func WriteCSV(w io.Writer, result *analysis.Result, opts CSVOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = opts.Delimiter
	writer.UseCRLF = opts.UseCRLF

	if err := writer.Write(rowColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range result.Rows {
		if err := writer.Write(rowValues(rec)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if opts.IncludeSummary {
		if err := writer.Write(nil); err == nil {
			for _, kv := range summaryLines(result.Summary) {
				if err := writer.Write(kv); err != nil {
					return fmt.Errorf("failed to write summary: %w", err)
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func rowValues(rec analysis.ClassifiedRecord) []string {
	return []string{
		strconv.FormatInt(rec.Impressions, 10),
		rec.Format,
		formatFloat(rec.CreativeWeightMB, 3),
		rec.NetworkType,
		formatFloat(rec.DeviceFactor, 2),
		formatFloat(rec.GridIntensity, 0),
		formatFloat(rec.AdTechFactor, 2),
		formatFloat(rec.NetworkGCO2, 2),
		formatFloat(rec.GridGCO2, 2),
		formatFloat(rec.AdTechGCO2, 2),
		formatFloat(rec.TotalGCO2, 2),
		formatFloat(rec.GCO2PM, 2),
	}
}

func summaryLines(s analysis.CampaignSummary) [][]string {
	lines := [][]string{
		{"Total Impressions", strconv.FormatInt(s.TotalImpressions, 10)},
		{"Total Emissions kg CO2", formatFloat(s.TotalEmissionsKg, 2)},
		{"Global gCO2PM", formatFloat(s.GlobalGCO2PM, 2)},
		{"Benchmark", s.Benchmark},
		{"Data Volume GB", formatFloat(s.DataVolumeGB, 2)},
		{"Carbon Cost EUR", formatFloat(s.CarbonCostEUR, 2)},
	}
	if s.ReportedImpressions > 0 {
		lines = append(lines,
			[]string{"Reported Impressions (TOTAL row)", strconv.FormatInt(s.ReportedImpressions, 10)},
			[]string{"Detail Delta", strconv.FormatInt(s.DetailDelta, 10)})
	}
	return lines
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
