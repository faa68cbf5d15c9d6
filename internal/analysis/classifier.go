package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

// adSizePattern matches literal pixel dimensions like "300x250" inside
// free-text creative labels.
var adSizePattern = regexp.MustCompile(`(\d{2,4})x(\d{2,4})`)

// keywordRule maps a set of substrings to a classification label. Rules are
// evaluated in declaration order; the first hit wins.
type keywordRule struct {
	keywords []string
	label    string
}

func (r keywordRule) matches(text string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Strong format keywords are unambiguous on their own. The bare "video"
// rule sits after instream/outstream so those more specific labels win.
var strongFormatRules = []keywordRule{
	{[]string{"instream", "in-stream"}, "Instream Video"},
	{[]string{"outstream", "out-stream"}, "Outstream Video"},
	{[]string{"masthead"}, "Masthead"},
	{[]string{"video"}, "Video"},
}

var genericFormatRules = []keywordRule{
	{[]string{"native"}, "Native"},
	{[]string{"audio", "podcast"}, "Audio"},
	{[]string{"dooh", "ooh"}, "DOOH"},
	{[]string{"display", "banner"}, "Display"},
}

// Network rules over the network column text. 5G before 4G before the
// generic cellular bucket, so "mobile 4g" lands on 4G.
var networkTextRules = []keywordRule{
	{[]string{"wifi", "wi-fi", "wlan"}, NetworkWiFi},
	{[]string{"fiber", "fibre", "fixed", "home"}, NetworkFiber},
	{[]string{"5g"}, Network5G},
	{[]string{"4g", "lte"}, Network4G},
	{[]string{"cellular", "3g", "mobile"}, NetworkCellular},
}

// Device fallback rules used when no network column value is present:
// handheld devices imply a cellular connection, fixed ones imply WiFi.
var networkDeviceRules = []keywordRule{
	{[]string{"mobile", "phone", "smartphone"}, NetworkCellular},
	{[]string{"desktop", "laptop"}, NetworkWiFi},
}

var deviceRules = []keywordRule{
	{[]string{"desktop", "laptop"}, DeviceDesktop},
	{[]string{"mobile", "phone", "smartphone"}, DeviceMobile},
	{[]string{"tablet", "ipad"}, DeviceTablet},
	{[]string{"ctv", "connected tv", "smart tv", "tv"}, DeviceCTV},
}

// directDealTokens mark a deal-type value that forces the Direct supply
// tier regardless of exchange.
var directDealTokens = []string{"direct", "pmp", "private", "guaranteed"}

// CoerceImpressions parses a raw impressions cell. Thousands separators and
// spaces are tolerated; anything non-numeric or negative coerces to 0, which
// excludes the row from aggregates without aborting the batch.
func CoerceImpressions(raw string) int64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil && fl > 0 {
		return int64(fl)
	}
	return 0
}

// InferFormat classifies creative format from candidate texts, checked in
// order. Precedence within all candidates: pixel dimension pattern, then
// strong keywords, then generic keywords, then "Display".
//
// Callers pass size-column text before type-column text; that order is the
// documented policy and is applied everywhere.
func InferFormat(candidates []string) string {
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if t := strings.TrimSpace(c); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return "Display"
	}

	for _, txt := range texts {
		if m := adSizePattern.FindStringSubmatch(txt); m != nil {
			return m[1] + "x" + m[2]
		}
	}
	for _, txt := range texts {
		lower := strings.ToLower(txt)
		for _, rule := range strongFormatRules {
			if rule.matches(lower) {
				return rule.label
			}
		}
	}
	for _, txt := range texts {
		lower := strings.ToLower(txt)
		for _, rule := range genericFormatRules {
			if rule.matches(lower) {
				return rule.label
			}
		}
	}
	return "Display"
}

// InferNetworkType infers the connection type, preferring explicit network
// text and falling back to device hints. Different platform exports populate
// different fields, so this is one inference chain, not duplicated logic.
// No signal at all resolves to Unknown (the table's fallback factor).
func InferNetworkType(networkText, deviceText string) string {
	if net := strings.ToLower(strings.TrimSpace(networkText)); net != "" {
		for _, rule := range networkTextRules {
			if rule.matches(net) {
				return rule.label
			}
		}
	}
	if dev := strings.ToLower(strings.TrimSpace(deviceText)); dev != "" {
		for _, rule := range networkDeviceRules {
			if rule.matches(dev) {
				return rule.label
			}
		}
	}
	return NetworkUnknown
}

// InferDeviceCategory canonicalizes free-text device values into factor
// table keys.
func InferDeviceCategory(deviceText string) string {
	dev := strings.ToLower(strings.TrimSpace(deviceText))
	if dev == "" {
		return DeviceUnknown
	}
	for _, rule := range deviceRules {
		if rule.matches(dev) {
			return rule.label
		}
	}
	return DeviceUnknown
}

// ResolveAdTechPath decides the supply-path key: deal-type text containing a
// direct-deal token forces "Direct" regardless of exchange; otherwise the
// exchange name is used; otherwise Unknown.
func ResolveAdTechPath(dealTypeText, exchangeText string) string {
	if deal := strings.ToLower(strings.TrimSpace(dealTypeText)); deal != "" {
		for _, tok := range directDealTokens {
			if strings.Contains(deal, tok) {
				return "Direct"
			}
		}
	}
	if exch := strings.TrimSpace(exchangeText); exch != "" {
		return exch
	}
	return factors.FallbackKey
}

// Classifier derives classified attributes for rows of one dataset.
type Classifier struct {
	dataset  *Dataset
	resolved ResolvedColumns
	tables   *factors.Tables
	keepRaw  bool
}

// NewClassifier builds a classifier bound to a dataset, its resolved column
// mapping and the active factor tables.
func NewClassifier(dataset *Dataset, resolved ResolvedColumns, tables *factors.Tables, keepRaw bool) *Classifier {
	return &Classifier{dataset: dataset, resolved: resolved, tables: tables, keepRaw: keepRaw}
}

// Classify derives the inferred attributes for a single row. Emission
// components are filled in later by the engine; classification itself is a
// pure function of the row and the tables.
func (c *Classifier) Classify(row []string) ClassifiedRecord {
	rec := ClassifiedRecord{}
	if c.keepRaw {
		rec.Raw = make(map[string]string, len(c.dataset.Columns))
		for _, col := range c.dataset.Columns {
			rec.Raw[col] = c.dataset.Cell(row, col)
		}
	}

	rec.Impressions = CoerceImpressions(c.roleValue(row, RoleImpressions))

	// Size column text is checked before type column text (fixed policy).
	rec.Format = InferFormat([]string{
		c.roleValue(row, RoleCreativeSize),
		c.roleValue(row, RoleCreativeType),
	})
	rec.CreativeWeightMB = c.tables.CreativeWeight(rec.Format)

	deviceText := c.roleValue(row, RoleDevice)
	rec.NetworkType = InferNetworkType(c.roleValue(row, RoleNetwork), deviceText)
	rec.DeviceFactor = c.tables.DeviceFactor(InferDeviceCategory(deviceText))

	rec.GridIntensity = c.tables.Grid(
		c.roleValue(row, RoleCountry),
		c.roleValue(row, RoleState),
	)

	path := ResolveAdTechPath(c.roleValue(row, RoleDealType), c.roleValue(row, RoleExchange))
	rec.AdTechFactor = c.tables.AdTechFactor(path)

	return rec
}

// roleValue reads a row cell by role; absent roles yield "".
func (c *Classifier) roleValue(row []string, role Role) string {
	col, ok := c.resolved.Column(role)
	if !ok {
		return ""
	}
	return c.dataset.Cell(row, col)
}
