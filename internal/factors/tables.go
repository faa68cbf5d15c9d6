// Package factors holds the emission factor tables the calculation pipeline
// consumes. All numeric factors are configuration, never code: the embedding
// application may replace any table wholesale by loading a JSON file over the
// documented defaults. Every multiplier table must carry an "Unknown" entry;
// grid intensity instead carries a single global-average fallback constant.
package factors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// FallbackKey is the mandatory default entry in every multiplier table.
const FallbackKey = "Unknown"

// ErrMissingFallback indicates a factor table lacks its required default
// entry. This is a configuration error: computation must not proceed.
var ErrMissingFallback = errors.New("factor table missing fallback entry")

// BenchmarkBand classifies a gCO2PM value. Bands are ordered by ascending
// Max; a value belongs to the first band whose Max it does not exceed
// (inclusive upper bound). The last band is open-ended when Max is zero.
type BenchmarkBand struct {
	Label string  `json:"label"`
	Max   float64 `json:"max"` // inclusive upper bound; 0 = unbounded
}

// ScenarioSpec names a what-if optimization strategy and the fixed fraction
// of total emissions it is assumed to remove.
type ScenarioSpec struct {
	Name      string  `json:"name"`
	Reduction float64 `json:"reduction"` // fraction in [0,1]
}

// Tables is the full set of injected lookup tables and calibration constants.
type Tables struct {
	// CreativeWeights maps a creative format label (or "WxH" dimension
	// string) to its average asset weight in MB.
	CreativeWeights map[string]float64 `json:"creative_weights"`

	// NetworkFactors maps a network type to gCO2 per MB transferred.
	NetworkFactors map[string]float64 `json:"network_factors"`

	// DeviceFactors maps a device category to a power-draw multiplier.
	DeviceFactors map[string]float64 `json:"device_factors"`

	// AdTechFactors maps a supply path (deal tier or exchange name) to an
	// ad-delivery overhead multiplier.
	AdTechFactors map[string]float64 `json:"adtech_factors"`

	// GridIntensity maps ISO country codes and country names to grid carbon
	// intensity in gCO2/kWh.
	GridIntensity map[string]float64 `json:"grid_intensity"`

	// USStateGridIntensity maps two-letter US state codes to gCO2/kWh.
	// State values override the US national average when present.
	USStateGridIntensity map[string]float64 `json:"us_state_grid_intensity"`

	// GridDefault is the unconditional global-average grid intensity used
	// when neither country nor state resolves.
	GridDefault float64 `json:"grid_default"`

	// GridScale converts kWh-scale grid intensity and impression counts
	// into gCO2 units in the grid component of the emission formula.
	GridScale float64 `json:"grid_scale"`

	// AdTechBase is the per-impression gCO2 baseline of the ad supply path
	// before the tier multiplier is applied.
	AdTechBase float64 `json:"adtech_base"`

	// Benchmarks classifies campaign-level gCO2PM, ordered by Max ascending.
	Benchmarks []BenchmarkBand `json:"benchmarks"`

	// Scenarios drive the what-if projector.
	Scenarios []ScenarioSpec `json:"scenarios"`

	// CarbonPriceEURPerKg prices the carbon debt of a campaign.
	CarbonPriceEURPerKg float64 `json:"carbon_price_eur_per_kg"`

	// TransportEmissions maps a transport mode to gCO2 per km, used to
	// express campaign totals as stakeholder-friendly equivalents.
	TransportEmissions map[string]float64 `json:"transport_emissions"`
}

// Load reads a Tables JSON file over the defaults, so partial files only
// override the tables they name.
func Load(path string) (*Tables, error) {
	t := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read factor tables: %w", err)
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse factor tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the structural requirements the pipeline depends on:
// fallback entries, a positive grid default and a usable benchmark ladder.
func (t *Tables) Validate() error {
	multipliers := map[string]map[string]float64{
		"creative_weights": t.CreativeWeights,
		"network_factors":  t.NetworkFactors,
		"device_factors":   t.DeviceFactors,
		"adtech_factors":   t.AdTechFactors,
	}
	for name, table := range multipliers {
		if len(table) == 0 {
			return fmt.Errorf("%s: empty table: %w", name, ErrMissingFallback)
		}
		if _, ok := table[FallbackKey]; !ok {
			return fmt.Errorf("%s: %w", name, ErrMissingFallback)
		}
	}
	if t.GridDefault <= 0 {
		return fmt.Errorf("grid_default must be positive: %w", ErrMissingFallback)
	}
	if len(t.Benchmarks) == 0 {
		return errors.New("benchmarks: at least one band required")
	}
	bounded := t.Benchmarks[:len(t.Benchmarks)-1]
	if !sort.SliceIsSorted(bounded, func(i, j int) bool { return bounded[i].Max < bounded[j].Max }) {
		return errors.New("benchmarks: bands must be ordered by ascending max")
	}
	for _, s := range t.Scenarios {
		if s.Reduction < 0 || s.Reduction > 1 {
			return fmt.Errorf("scenario %q: reduction %v outside [0,1]", s.Name, s.Reduction)
		}
	}
	return nil
}

// resolve applies the three-tier lookup shared by every multiplier table:
// exact key match, then case-insensitive substring match (table key found
// within the query), then the mandatory fallback entry. Format and device
// labels are free-text-derived and rarely match table keys verbatim, hence
// the substring tier.
func resolve(table map[string]float64, key string) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	lower := strings.ToLower(key)
	if lower != "" {
		best := ""
		for k := range table {
			if k == FallbackKey {
				continue
			}
			if strings.Contains(lower, strings.ToLower(k)) && len(k) > len(best) {
				best = k
			}
		}
		if best != "" {
			return table[best]
		}
	}
	return table[FallbackKey]
}

// CreativeWeight returns the asset weight in MB for a format label.
func (t *Tables) CreativeWeight(format string) float64 {
	return resolve(t.CreativeWeights, format)
}

// NetworkFactor returns gCO2/MB for a network type.
func (t *Tables) NetworkFactor(network string) float64 {
	return resolve(t.NetworkFactors, network)
}

// DeviceFactor returns the power multiplier for a device category.
func (t *Tables) DeviceFactor(device string) float64 {
	return resolve(t.DeviceFactors, device)
}

// AdTechFactor returns the supply-path multiplier for a deal tier or
// exchange name.
func (t *Tables) AdTechFactor(path string) float64 {
	return resolve(t.AdTechFactors, path)
}

// Grid resolves grid carbon intensity. A recognized US state overrides the
// national average; otherwise the country resolves by code or name, exact
// then substring; otherwise the global default applies.
func (t *Tables) Grid(country, state string) float64 {
	country = strings.ToUpper(strings.TrimSpace(country))
	state = strings.ToUpper(strings.TrimSpace(state))
	state = strings.TrimPrefix(state, "US-")

	if state != "" && isUSToken(country) {
		if v, ok := t.USStateGridIntensity[state]; ok {
			return v
		}
	}
	if country != "" {
		if v, ok := t.GridIntensity[country]; ok {
			return v
		}
		for k, v := range t.GridIntensity {
			if len(k) > 3 && strings.Contains(country, k) {
				return v
			}
		}
	}
	return t.GridDefault
}

// Benchmark returns the band label for a campaign-level gCO2PM value.
// Upper bounds are inclusive; the final band catches everything above.
func (t *Tables) Benchmark(gco2pm float64) string {
	for i, band := range t.Benchmarks {
		last := i == len(t.Benchmarks)-1
		if last || gco2pm <= band.Max {
			return band.Label
		}
	}
	return t.Benchmarks[len(t.Benchmarks)-1].Label
}

func isUSToken(country string) bool {
	switch country {
	case "US", "USA", "UNITED STATES", "UNITED STATES OF AMERICA":
		return true
	}
	return strings.Contains(country, "UNITED STATES")
}
