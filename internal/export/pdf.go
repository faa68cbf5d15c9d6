package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
)

// PDFOptions configures the summary report layout.
type PDFOptions struct {
	Title      string  `json:"title"`
	FontFamily string  `json:"font_family"`
	FontSize   float64 `json:"font_size"`
}

// DefaultPDFOptions returns the defaults used by the download endpoints.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:      "Campaign Carbon Report",
		FontFamily: "Arial",
		FontSize:   10,
	}
}

// WritePDF renders the campaign summary as a one-page-plus PDF: KPI block,
// benchmark line, format breakdown, scenario projections and transport
// equivalents.
func WritePDF(w io.Writer, result *analysis.Result, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Title block
	pdf.SetFont(opts.FontFamily, "B", 16)
	pdf.CellFormat(0, 10, opts.Title, "", 1, "C", false, 0, "")
	if result.FileName != "" {
		pdf.SetFont(opts.FontFamily, "", opts.FontSize+1)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, result.FileName, "", 1, "C", false, 0, "")
	}
	pdf.SetFont(opts.FontFamily, "", opts.FontSize-1)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	summary := result.Summary

	// KPI block
	pdf.SetFont(opts.FontFamily, "B", opts.FontSize+2)
	pdf.CellFormat(0, 8, fmt.Sprintf("%.2f gCO2PM  -  %s", summary.GlobalGCO2PM, summary.Benchmark), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writeKVTable(pdf, opts, [][2]string{
		{"Total Impressions", fmt.Sprintf("%d", summary.TotalImpressions)},
		{"Total Emissions", fmt.Sprintf("%.2f kg CO2", summary.TotalEmissionsKg)},
		{"Data Volume", fmt.Sprintf("%.2f GB", summary.DataVolumeGB)},
		{"Carbon Cost", fmt.Sprintf("%.2f EUR", summary.CarbonCostEUR)},
		{"Rows Analyzed", fmt.Sprintf("%d (excluded %d, total rows %d)", summary.RowsAnalyzed, summary.RowsExcluded, summary.TotalRowsSeen)},
	})

	// Format breakdown
	writeSectionHeader(pdf, opts, "Breakdown by Format")
	writeTableHeader(pdf, opts, []string{"Format", "Impressions", "Emissions kg", "gCO2PM", "Share %"}, []float64{50, 35, 35, 30, 30})
	for _, fb := range summary.Formats {
		writeTableRow(pdf, opts, []string{
			fb.Format,
			fmt.Sprintf("%d", fb.Impressions),
			fmt.Sprintf("%.3f", fb.EmissionsKg),
			fmt.Sprintf("%.2f", fb.GCO2PM),
			fmt.Sprintf("%.1f", fb.EmissionShare*100),
		}, []float64{50, 35, 35, 30, 30})
	}

	// Scenario projections
	writeSectionHeader(pdf, opts, "Optimization Scenarios")
	writeTableHeader(pdf, opts, []string{"Scenario", "Reduction %", "Projected gCO2PM", "Saved kg"}, []float64{70, 35, 40, 35})
	for _, sc := range result.Scenarios {
		writeTableRow(pdf, opts, []string{
			sc.Name,
			fmt.Sprintf("%.0f", sc.ReductionPct),
			fmt.Sprintf("%.2f", sc.ProjectedGCO2PM),
			fmt.Sprintf("%.3f", sc.SavedKg),
		}, []float64{70, 35, 40, 35})
	}

	// Transport equivalents
	if len(summary.Transport) > 0 {
		writeSectionHeader(pdf, opts, "Equivalent To Traveling")
		for _, te := range summary.Transport {
			pdf.SetFont(opts.FontFamily, "", opts.FontSize)
			pdf.CellFormat(0, 6, fmt.Sprintf("%.1f km by %s", te.Km, te.Mode), "", 1, "L", false, 0, "")
		}
	}

	// Insights
	if len(result.Insights) > 0 {
		writeSectionHeader(pdf, opts, "Findings")
		for _, in := range result.Insights {
			pdf.SetFont(opts.FontFamily, "B", opts.FontSize)
			pdf.CellFormat(0, 6, in.Finding, "", 1, "L", false, 0, "")
			pdf.SetFont(opts.FontFamily, "", opts.FontSize)
			pdf.MultiCell(0, 5, in.Details+". "+in.Action+".", "", "L", false)
		}
	}

	return pdf.Output(w)
}

func writeKVTable(pdf *gofpdf.Fpdf, opts PDFOptions, rows [][2]string) {
	for _, kv := range rows {
		pdf.SetFont(opts.FontFamily, "B", opts.FontSize)
		pdf.CellFormat(60, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont(opts.FontFamily, "", opts.FontSize)
		pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
}

func writeSectionHeader(pdf *gofpdf.Fpdf, opts PDFOptions, title string) {
	pdf.Ln(4)
	pdf.SetFont(opts.FontFamily, "B", opts.FontSize+2)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func writeTableHeader(pdf *gofpdf.Fpdf, opts PDFOptions, labels []string, widths []float64) {
	pdf.SetFont(opts.FontFamily, "B", opts.FontSize)
	pdf.SetFillColor(46, 139, 139)
	pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 7, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func writeTableRow(pdf *gofpdf.Fpdf, opts PDFOptions, values []string, widths []float64) {
	pdf.SetFont(opts.FontFamily, "", opts.FontSize)
	for i, v := range values {
		pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
