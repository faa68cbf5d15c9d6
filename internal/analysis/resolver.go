package analysis

import (
	"fmt"
	"strings"
)

// roleCandidates lists, per role, the header terms that may carry it,
// ordered by priority. Matching is case-insensitive and exact: partial
// matches are rejected at this stage to avoid binding adjacent columns
// (e.g. "viewable impressions pct" must not satisfy the impressions role).
var roleCandidates = []struct {
	role  Role
	terms []string
}{
	{RoleImpressions, []string{
		"impressions", "billable impressions", "adserving impressions",
		"delivered impressions", "imps", "imp", "delivered",
	}},
	{RoleDevice, []string{
		"device", "device type", "device_type", "device category", "device_category",
	}},
	{RoleCountry, []string{
		"country", "countryregion", "country/region", "geo", "geography", "location",
	}},
	{RoleState, []string{
		"state", "us state", "us_state", "region (state)",
	}},
	{RoleNetwork, []string{
		"network", "network type", "network_type",
		"connection", "connection type", "connection_type",
	}},
	{RoleCreativeType, []string{
		"creative type", "creative_type", "format", "ad type", "ad_type",
		"media type", "media_type", "creative",
	}},
	{RoleCreativeSize, []string{
		"creative size", "creative_size", "size", "ad size", "ad_size",
		"asset size", "dimensions",
	}},
	{RoleExchange, []string{
		"exchange", "ssp", "dsp", "supply source", "seller",
	}},
	{RoleDealType, []string{
		"deal type", "deal_type", "deal", "transaction type", "buy type",
	}},
}

// ResolveColumns maps input headers to semantic roles. Each role binds to
// the first candidate term with a case-insensitive exact header match;
// unmatched roles stay absent. The impressions role is mandatory: without
// it the pipeline refuses to run.
func ResolveColumns(columns []string) (ResolvedColumns, error) {
	byLower := make(map[string]string, len(columns))
	for _, col := range columns {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, ok := byLower[key]; !ok {
			byLower[key] = col
		}
	}

	resolved := make(ResolvedColumns)
	for _, rc := range roleCandidates {
		for _, term := range rc.terms {
			if col, ok := byLower[term]; ok {
				resolved[rc.role] = col
				break
			}
		}
	}

	if _, ok := resolved[RoleImpressions]; !ok {
		return nil, fmt.Errorf("%w: headers %v", ErrImpressionsColumn, columns)
	}
	return resolved, nil
}
