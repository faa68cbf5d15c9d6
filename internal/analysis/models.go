// Package analysis implements the campaign carbon pipeline: column
// resolution, TOTAL-row filtering, per-row classification, the emissions
// engine, benchmark rating and scenario projection.
package analysis

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors. ErrImpressionsColumn and ErrMissingFallback-style table
// problems are configuration errors (setup, not data); ErrNoUsableRows is a
// data error. Callers dispatch with errors.Is.
var (
	// ErrImpressionsColumn means no header matched the impressions role.
	ErrImpressionsColumn = errors.New("impressions column could not be resolved")

	// ErrNoUsableRows means every row was removed by TOTAL-row filtering
	// and zero-impression exclusion.
	ErrNoUsableRows = errors.New("no usable rows after filtering")
)

// Dataset is a rectangular table as ingested: ordered columns and raw string
// cells. Rows shorter than the header are padded by the readers.
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	index map[string]int
}

// NewDataset builds a dataset and its column index.
func NewDataset(columns []string, rows [][]string) *Dataset {
	d := &Dataset{Columns: columns, Rows: rows}
	d.buildIndex()
	return d
}

func (d *Dataset) buildIndex() {
	d.index = make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		if _, ok := d.index[c]; !ok {
			d.index[c] = i
		}
	}
}

// Cell returns the value of a named column in a row, or "" when the column
// does not exist or the row is short.
func (d *Dataset) Cell(row []string, column string) string {
	if d.index == nil {
		d.buildIndex()
	}
	i, ok := d.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Role is one of the semantic column roles the pipeline consumes.
type Role string

const (
	RoleImpressions  Role = "impressions"
	RoleDevice       Role = "device"
	RoleCountry      Role = "country"
	RoleState        Role = "state"
	RoleNetwork      Role = "network"
	RoleCreativeType Role = "creative_type"
	RoleCreativeSize Role = "creative_size"
	RoleExchange     Role = "exchange"
	RoleDealType     Role = "deal_type"
)

// ResolvedColumns maps each resolved role to its source column name.
// Absent roles are simply missing from the map; every downstream consumer
// has an explicit column-absent branch.
type ResolvedColumns map[Role]string

// Column returns the source column for a role and whether it resolved.
func (rc ResolvedColumns) Column(role Role) (string, bool) {
	col, ok := rc[role]
	return col, ok
}

// Network type labels produced by the classifier. They double as keys into
// the network factor table.
const (
	NetworkWiFi     = "WiFi"
	NetworkFiber    = "Fiber"
	Network5G       = "5G"
	Network4G       = "4G"
	NetworkCellular = "Cellular"
	NetworkUnknown  = "Unknown"
)

// Device category labels, keys into the device factor table.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceCTV     = "CTV"
	DeviceUnknown = "Unknown"
)

// ClassifiedRecord is one input row extended with its inferred attributes
// and derived emission components. Every derived field is a pure function
// of the row's raw values and the factor tables.
type ClassifiedRecord struct {
	Raw map[string]string `json:"raw,omitempty"`

	Impressions      int64   `json:"impressions"`
	Format           string  `json:"format"`
	CreativeWeightMB float64 `json:"creative_weight_mb"`
	NetworkType      string  `json:"network_type"`
	DeviceFactor     float64 `json:"device_factor"`
	GridIntensity    float64 `json:"grid_intensity"`
	AdTechFactor     float64 `json:"adtech_factor"`

	NetworkGCO2 float64 `json:"network_gco2"`
	GridGCO2    float64 `json:"grid_gco2"`
	AdTechGCO2  float64 `json:"adtech_gco2"`
	TotalGCO2   float64 `json:"total_gco2"`
	GCO2PM      float64 `json:"gco2pm"`
}

// AggregationMode selects how campaign-level gCO2PM is derived.
type AggregationMode string

const (
	// AggregationWeighted is the impression-weighted aggregate,
	// sum(total_gCO2)/sum(impressions)*1000. The statistically correct
	// form and the default.
	AggregationWeighted AggregationMode = "weighted"

	// AggregationRowMean is the unweighted mean of per-row gCO2PM, kept
	// only for compatibility with legacy reports that computed it this
	// way. It overweights low-volume rows.
	AggregationRowMean AggregationMode = "row-mean"
)

// Options configures pipeline behavior differences as explicit named
// switches, never divergent code paths.
type Options struct {
	Aggregation AggregationMode `json:"aggregation"`

	// KeepRawValues retains the original cell values on each classified
	// record (useful for row-level exports, costly for large uploads).
	KeepRawValues bool `json:"keep_raw_values"`
}

// FormatBreakdown aggregates one inferred format.
type FormatBreakdown struct {
	Format        string  `json:"format"`
	Impressions   int64   `json:"impressions"`
	EmissionsKg   float64 `json:"emissions_kg"`
	GCO2PM        float64 `json:"gco2pm"`
	EmissionShare float64 `json:"emission_share"` // fraction of campaign total
}

// TransportEquivalent expresses total emissions as distance traveled.
type TransportEquivalent struct {
	Mode string  `json:"mode"`
	Km   float64 `json:"km"`
}

// CampaignSummary is the terminal aggregate of one analysis run.
type CampaignSummary struct {
	TotalImpressions int64   `json:"total_impressions"`
	TotalEmissionsKg float64 `json:"total_emissions_kg"`
	GlobalGCO2PM     float64 `json:"global_gco2pm"`
	Benchmark        string  `json:"benchmark"`
	DataVolumeGB     float64 `json:"data_volume_gb"`
	CarbonCostEUR    float64 `json:"carbon_cost_eur"`

	// ReportedImpressions is set when a structural TOTAL row supplied the
	// authoritative impressions figure; DetailDelta is the difference
	// against the detail-row sum (diagnostic, may be non-zero by design).
	ReportedImpressions int64 `json:"reported_impressions,omitempty"`
	DetailDelta         int64 `json:"detail_delta,omitempty"`

	RowsAnalyzed  int `json:"rows_analyzed"`
	RowsExcluded  int `json:"rows_excluded"`
	TotalRowsSeen int `json:"total_rows_seen"`

	Formats    []FormatBreakdown     `json:"formats"`
	Transport  []TransportEquivalent `json:"transport_equivalents"`
	Aggregation AggregationMode      `json:"aggregation"`
}

// ScenarioProjection is one what-if outcome.
type ScenarioProjection struct {
	Name            string  `json:"name"`
	ReductionPct    float64 `json:"reduction_pct"`
	ProjectedGCO2PM float64 `json:"projected_gco2pm"`
	SavedKg         float64 `json:"saved_kg"`
}

// Insight is a human-readable finding derived from the breakdowns.
type Insight struct {
	Finding string `json:"finding"`
	Details string `json:"details"`
	Action  string `json:"action"`
}

// Result is the full artifact of one analysis run.
type Result struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FileName  string    `json:"file_name,omitempty"`

	Resolved  ResolvedColumns      `json:"resolved_columns"`
	Summary   CampaignSummary      `json:"summary"`
	Rows      []ClassifiedRecord   `json:"rows"`
	Scenarios []ScenarioProjection `json:"scenarios"`
	Insights  []Insight            `json:"insights"`
}
