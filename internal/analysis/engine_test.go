package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

var campaignColumns = []string{
	"Campaign", "Impressions", "Device", "Country", "State",
	"Network", "Creative Size", "Creative Type", "Exchange", "Deal Type",
}

func runEngine(t *testing.T, opts Options, rows [][]string) *Result {
	t.Helper()
	engine := NewEngine(factors.Defaults(), opts)
	result, err := engine.Run(NewDataset(campaignColumns, rows))
	require.NoError(t, err)
	return result
}

// Two rows with known factors, checked end to end against hand-computed
// component values.
func TestEngineEndToEnd(t *testing.T) {
	result := runEngine(t, Options{}, [][]string{
		{"A", "1000000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
		{"B", "500000", "Mobile", "PL", "", "4G", "", "Instream Video", "", ""},
	})

	require.Len(t, result.Rows, 2)
	rowA, rowB := result.Rows[0], result.Rows[1]

	// Row A: 1M x 0.35MB x 0.018 + 1M x 50 x 1.0 x 1e-4 + 1M x 0.01 x 1.5
	assert.InDelta(t, 6300, rowA.NetworkGCO2, 1e-6)
	assert.InDelta(t, 5000, rowA.GridGCO2, 1e-6)
	assert.InDelta(t, 15000, rowA.AdTechGCO2, 1e-6)
	assert.InDelta(t, 26300, rowA.TotalGCO2, 1e-6)
	assert.InDelta(t, 26.3, rowA.GCO2PM, 1e-9)

	// Row B: 500k x 3.0MB x 0.05 + 500k x 700 x 0.6 x 1e-4 + 500k x 0.01 x 1.5
	assert.InDelta(t, 75000, rowB.NetworkGCO2, 1e-6)
	assert.InDelta(t, 21000, rowB.GridGCO2, 1e-6)
	assert.InDelta(t, 7500, rowB.AdTechGCO2, 1e-6)
	assert.InDelta(t, 103500, rowB.TotalGCO2, 1e-6)
	assert.InDelta(t, 207.0, rowB.GCO2PM, 1e-9)

	s := result.Summary
	assert.Equal(t, int64(1500000), s.TotalImpressions)
	assert.InDelta(t, (26300.0+103500.0)/1500000*1000, s.GlobalGCO2PM, 1e-9) // 86.533...
	assert.Equal(t, "Good", s.Benchmark)
	assert.InDelta(t, 129.8, s.TotalEmissionsKg, 1e-9)
	assert.InDelta(t, (1000000*0.35+500000*3.0)/1024, s.DataVolumeGB, 1e-6)
	assert.InDelta(t, 12.98, s.CarbonCostEUR, 1e-9)
	assert.Equal(t, 2, s.RowsAnalyzed)
	assert.NotEmpty(t, s.Transport)
	assert.Equal(t, AggregationWeighted, s.Aggregation)
}

// The weighted aggregate must be dominated by the high-volume row; the
// row-mean mode must not be. Unequal volumes make the two modes diverge.
func TestWeightedVsRowMeanAggregation(t *testing.T) {
	rows := [][]string{
		{"tiny", "1", "Mobile", "PL", "", "4G", "", "Video HD", "", ""},
		{"huge", "1000000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
	}

	weighted := runEngine(t, Options{Aggregation: AggregationWeighted}, rows)
	rowMean := runEngine(t, Options{Aggregation: AggregationRowMean}, rows)

	hugeRate := weighted.Rows[1].GCO2PM
	tinyRate := weighted.Rows[0].GCO2PM
	require.Greater(t, tinyRate, hugeRate)

	assert.InDelta(t, hugeRate, weighted.Summary.GlobalGCO2PM, 1.0,
		"weighted aggregate tracks the high-volume row")
	assert.InDelta(t, (hugeRate+tinyRate)/2, rowMean.Summary.GlobalGCO2PM, 1e-9,
		"row-mean is the plain average")
	assert.NotEqual(t, weighted.Summary.GlobalGCO2PM, rowMean.Summary.GlobalGCO2PM)
}

func TestZeroImpressionRowsExcluded(t *testing.T) {
	result := runEngine(t, Options{}, [][]string{
		{"A", "1000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
		{"B", "not a number", "Mobile", "PL", "", "4G", "", "Video", "", ""},
		{"C", "2000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
	})

	assert.Equal(t, int64(3000), result.Summary.TotalImpressions)
	assert.Equal(t, 2, result.Summary.RowsAnalyzed)
	assert.Equal(t, 1, result.Summary.RowsExcluded)
	assert.Len(t, result.Rows, 2)
}

func TestStructuralTotalDefinesCampaignImpressions(t *testing.T) {
	result := runEngine(t, Options{}, [][]string{
		{"A", "1000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
		{"B", "1900", "Mobile", "PL", "", "4G", "", "Video", "", ""},
		{"", "3000", "", "", "", "", "", "", "", ""},
	})

	s := result.Summary
	assert.Equal(t, int64(3000), s.TotalImpressions, "TOTAL row is authoritative")
	assert.Equal(t, int64(3000), s.ReportedImpressions)
	assert.Equal(t, int64(100), s.DetailDelta)
	assert.Equal(t, 2, s.RowsAnalyzed)
	assert.Equal(t, 1, s.TotalRowsSeen)
}

func TestNoUsableRows(t *testing.T) {
	engine := NewEngine(factors.Defaults(), Options{})

	_, err := engine.Run(NewDataset(campaignColumns, [][]string{
		{"A", "0", "", "", "", "", "", "", "", ""},
		{"Total", "500", "", "", "", "", "", "", "", ""},
	}))
	assert.ErrorIs(t, err, ErrNoUsableRows)
}

func TestMissingImpressionsColumnFailsFast(t *testing.T) {
	engine := NewEngine(factors.Defaults(), Options{})

	_, err := engine.Run(NewDataset([]string{"Device", "Country"}, [][]string{{"Desktop", "FR"}}))
	assert.ErrorIs(t, err, ErrImpressionsColumn)
}

func TestFormatBreakdownSharesSumToOne(t *testing.T) {
	result := runEngine(t, Options{}, [][]string{
		{"A", "1000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
		{"B", "2000", "Mobile", "PL", "", "4G", "", "Instream Video", "", ""},
		{"C", "500", "Desktop", "DE", "", "WiFi", "300x250", "", "", ""},
	})

	var share float64
	for _, fb := range result.Summary.Formats {
		share += fb.EmissionShare
	}
	assert.InDelta(t, 1.0, share, 1e-9)
	assert.Len(t, result.Summary.Formats, 2)

	// Breakdown is sorted by emissions descending.
	require.NotEmpty(t, result.Summary.Formats)
	assert.Equal(t, "Instream Video", result.Summary.Formats[0].Format)

	require.NotEmpty(t, result.Insights)
	assert.Contains(t, result.Insights[0].Details, "Instream Video")
}
