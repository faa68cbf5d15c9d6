package analysis

import "strings"

// totalTokens are cell values that mark an exporter-injected summary row.
// The whole normalized cell must equal a token; substring matching would
// misfire on legitimate values like "Total Recall campaign".
var totalTokens = map[string]struct{}{
	"total":       {},
	"grand total": {},
	"sum":         {},
	"overall":     {},
	"subtotal":    {},
	"all":         {},
}

// TotalRowFilter removes pre-aggregated TOTAL/subtotal rows so they are not
// double-counted. Two detections run per row, structural first:
//
//  1. Structural: the first column is blank while the impressions cell holds
//     a positive number. This is the trailing-summary layout DV360-style
//     exports produce. The first such row also supplies the authoritative
//     campaign impressions figure (ReportedImpressions); detail rows are
//     kept for breakdowns but do not define the campaign total. This is a
//     deliberate reconciliation choice, not a bug — the platform-reported
//     total wins over row-level noise.
//  2. Token: any cell whose normalized text equals a total indicator.
//
// The filter is idempotent: rows that survive one pass survive every pass.
type TotalRowFilter struct {
	dataset  *Dataset
	resolved ResolvedColumns
}

// FilterOutcome reports what the filter removed.
type FilterOutcome struct {
	Rows [][]string

	// TotalRowsRemoved counts removed rows of either kind.
	TotalRowsRemoved int

	// ReportedImpressions is non-zero when a structural TOTAL row was
	// found; it holds that row's impressions figure.
	ReportedImpressions int64
}

// NewTotalRowFilter builds a filter for one dataset and its column mapping.
func NewTotalRowFilter(dataset *Dataset, resolved ResolvedColumns) *TotalRowFilter {
	return &TotalRowFilter{dataset: dataset, resolved: resolved}
}

// Apply runs both detections over every row.
func (f *TotalRowFilter) Apply() FilterOutcome {
	out := FilterOutcome{Rows: make([][]string, 0, len(f.dataset.Rows))}
	impsCol, _ := f.resolved.Column(RoleImpressions)

	for _, row := range f.dataset.Rows {
		if imps, ok := f.structuralTotal(row, impsCol); ok {
			out.TotalRowsRemoved++
			if out.ReportedImpressions == 0 {
				out.ReportedImpressions = imps
			}
			continue
		}
		if f.tokenTotal(row) {
			out.TotalRowsRemoved++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// structuralTotal detects the blank-first-column trailing summary layout.
func (f *TotalRowFilter) structuralTotal(row []string, impsCol string) (int64, bool) {
	if len(row) == 0 || strings.TrimSpace(row[0]) != "" {
		return 0, false
	}
	imps := CoerceImpressions(f.dataset.Cell(row, impsCol))
	if imps <= 0 {
		return 0, false
	}
	return imps, true
}

// tokenTotal detects indicator tokens anywhere in the row.
func (f *TotalRowFilter) tokenTotal(row []string) bool {
	for _, cell := range row {
		norm := strings.ToLower(strings.TrimSpace(cell))
		if _, ok := totalTokens[norm]; ok {
			return true
		}
	}
	return false
}
