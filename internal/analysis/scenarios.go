package analysis

import (
	"math"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

// ProjectScenarios applies the configured what-if strategies to the campaign
// aggregate. Each scenario is a single multiplier on the total — a coarse,
// non-causal projection that does not re-run the engine. Reductions are
// clamped to [0,1] so projections stay monotone and non-negative even with a
// misconfigured table.
func ProjectScenarios(tables *factors.Tables, summary CampaignSummary) []ScenarioProjection {
	out := make([]ScenarioProjection, 0, len(tables.Scenarios))
	for _, spec := range tables.Scenarios {
		frac := math.Min(math.Max(spec.Reduction, 0), 1)
		out = append(out, ScenarioProjection{
			Name:            spec.Name,
			ReductionPct:    frac * 100,
			ProjectedGCO2PM: summary.GlobalGCO2PM * (1 - frac),
			SavedKg:         summary.TotalEmissionsKg * frac,
		})
	}
	return out
}
