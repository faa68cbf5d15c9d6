package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

// Engine runs the carbon pipeline over one dataset: resolve columns, strip
// TOTAL rows, classify, compute per-row emission components and derive the
// campaign summary. It holds no state across runs.
type Engine struct {
	tables *factors.Tables
	opts   Options
}

// NewEngine builds an engine over the given factor tables. The tables must
// already be validated; a nil Options aggregation defaults to weighted.
func NewEngine(tables *factors.Tables, opts Options) *Engine {
	if opts.Aggregation == "" {
		opts.Aggregation = AggregationWeighted
	}
	return &Engine{tables: tables, opts: opts}
}

// Run executes the full pipeline. ErrImpressionsColumn is returned before
// any computation when the mandatory role is unresolved; ErrNoUsableRows
// when filtering leaves nothing to aggregate.
func (e *Engine) Run(dataset *Dataset) (*Result, error) {
	resolved, err := ResolveColumns(dataset.Columns)
	if err != nil {
		return nil, err
	}

	outcome := NewTotalRowFilter(dataset, resolved).Apply()

	classifier := NewClassifier(dataset, resolved, e.tables, e.opts.KeepRawValues)
	rows := make([]ClassifiedRecord, 0, len(outcome.Rows))
	excluded := 0
	for _, raw := range outcome.Rows {
		rec := classifier.Classify(raw)
		if rec.Impressions <= 0 {
			// Coercion failures and genuine zero rows are excluded from
			// aggregates, never a hard failure for the batch.
			excluded++
			continue
		}
		e.computeRow(&rec)
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d rows ingested, %d total rows removed, %d excluded",
			ErrNoUsableRows, len(dataset.Rows), outcome.TotalRowsRemoved, excluded)
	}

	summary := e.summarize(rows, outcome)
	summary.RowsExcluded = excluded
	summary.TotalRowsSeen = outcome.TotalRowsRemoved

	result := &Result{
		Resolved:  resolved,
		Summary:   summary,
		Rows:      rows,
		Scenarios: ProjectScenarios(e.tables, summary),
		Insights:  deriveInsights(summary),
	}
	return result, nil
}

// computeRow fills the three additive emission components and the per-row
// intensity. Impressions are guaranteed positive by the caller.
func (e *Engine) computeRow(rec *ClassifiedRecord) {
	imps := float64(rec.Impressions)

	rec.NetworkGCO2 = imps * rec.CreativeWeightMB * e.tables.NetworkFactor(rec.NetworkType)
	rec.GridGCO2 = imps * rec.GridIntensity * rec.DeviceFactor * e.tables.GridScale
	rec.AdTechGCO2 = imps * e.tables.AdTechBase * rec.AdTechFactor
	rec.TotalGCO2 = rec.NetworkGCO2 + rec.GridGCO2 + rec.AdTechGCO2
	rec.GCO2PM = rec.TotalGCO2 / imps * 1000
}

// summarize aggregates classified rows into the campaign summary.
func (e *Engine) summarize(rows []ClassifiedRecord, outcome FilterOutcome) CampaignSummary {
	var totalImps int64
	var totalGrams, totalMB, rowPMSum float64
	for _, rec := range rows {
		totalImps += rec.Impressions
		totalGrams += rec.TotalGCO2
		totalMB += float64(rec.Impressions) * rec.CreativeWeightMB
		rowPMSum += rec.GCO2PM
	}

	summary := CampaignSummary{
		TotalImpressions: totalImps,
		TotalEmissionsKg: totalGrams / 1000,
		DataVolumeGB:     totalMB / 1024,
		RowsAnalyzed:     len(rows),
		Aggregation:      e.opts.Aggregation,
	}

	// The weighted form divides total grams by total impressions so rows
	// with unequal volumes contribute proportionally. The row-mean form is
	// a legacy compatibility mode only.
	switch e.opts.Aggregation {
	case AggregationRowMean:
		summary.GlobalGCO2PM = rowPMSum / float64(len(rows))
	default:
		summary.GlobalGCO2PM = totalGrams / float64(totalImps) * 1000
	}

	// A structural TOTAL row, when present, is the authoritative campaign
	// impressions figure; the delta against the detail sum is surfaced for
	// reconciliation diagnostics.
	if outcome.ReportedImpressions > 0 {
		summary.ReportedImpressions = outcome.ReportedImpressions
		summary.DetailDelta = outcome.ReportedImpressions - totalImps
		summary.TotalImpressions = outcome.ReportedImpressions
	}

	summary.Benchmark = e.tables.Benchmark(summary.GlobalGCO2PM)
	summary.CarbonCostEUR = carbonCost(summary.TotalEmissionsKg, e.tables.CarbonPriceEURPerKg)
	summary.Transport = transportEquivalents(totalGrams, e.tables.TransportEmissions)
	summary.Formats = formatBreakdown(rows, totalGrams)
	return summary
}

// carbonCost prices the campaign's carbon debt in EUR, computed in decimal
// to keep the money value exact before rounding.
func carbonCost(totalKg, pricePerKg float64) float64 {
	cost := decimal.NewFromFloat(totalKg).Mul(decimal.NewFromFloat(pricePerKg))
	f, _ := cost.Round(2).Float64()
	return f
}

// transportEquivalents expresses total grams as km traveled per mode,
// sorted by mode name for stable output.
func transportEquivalents(totalGrams float64, table map[string]float64) []TransportEquivalent {
	out := make([]TransportEquivalent, 0, len(table))
	for mode, gPerKm := range table {
		if gPerKm <= 0 {
			continue
		}
		out = append(out, TransportEquivalent{
			Mode: mode,
			Km:   math.Round(totalGrams/gPerKm*10) / 10,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out
}

// formatBreakdown aggregates per inferred format, weighted within each
// format, sorted by emissions descending.
func formatBreakdown(rows []ClassifiedRecord, totalGrams float64) []FormatBreakdown {
	type acc struct {
		imps  int64
		grams float64
	}
	byFormat := make(map[string]*acc)
	for _, rec := range rows {
		a, ok := byFormat[rec.Format]
		if !ok {
			a = &acc{}
			byFormat[rec.Format] = a
		}
		a.imps += rec.Impressions
		a.grams += rec.TotalGCO2
	}

	out := make([]FormatBreakdown, 0, len(byFormat))
	for format, a := range byFormat {
		fb := FormatBreakdown{
			Format:      format,
			Impressions: a.imps,
			EmissionsKg: a.grams / 1000,
		}
		if a.imps > 0 {
			fb.GCO2PM = a.grams / float64(a.imps) * 1000
		}
		if totalGrams > 0 {
			fb.EmissionShare = a.grams / totalGrams
		}
		out = append(out, fb)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmissionsKg != out[j].EmissionsKg {
			return out[i].EmissionsKg > out[j].EmissionsKg
		}
		return out[i].Format < out[j].Format
	})
	return out
}

// deriveInsights produces the top-emitter finding from the breakdown.
func deriveInsights(summary CampaignSummary) []Insight {
	if len(summary.Formats) == 0 {
		return nil
	}
	top := summary.Formats[0]
	return []Insight{{
		Finding: "Highest Emission Format",
		Details: fmt.Sprintf("%s accounts for %.1f%% of total emissions", top.Format, top.EmissionShare*100),
		Action:  fmt.Sprintf("Reduce volume or creative weight for %s", top.Format),
	}}
}
