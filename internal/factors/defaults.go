package factors

// Defaults returns the built-in factor tables. Values are illustrative
// industry averages (Ember/IEA grid data, EPA eGRID state data, GMSF-aligned
// creative weights), not metered measurements.
func Defaults() *Tables {
	return &Tables{
		CreativeWeights: map[string]float64{
			// Display rectangles
			"200x200": 0.12, "250x250": 0.15, "300x250": 0.35, "336x280": 0.40,
			"728x90": 0.25, "970x90": 0.30, "970x250": 0.50,
			"160x600": 0.28, "120x600": 0.18, "300x600": 0.45, "300x1050": 0.65,
			// Mobile
			"320x50": 0.12, "320x100": 0.18, "300x50": 0.12,
			"480x320": 0.30, "320x480": 0.32,
			"640x1136": 0.60, "750x1334": 0.65, "1080x1920": 0.80,
			// Generic fallbacks by type
			"Video":           3.0,
			"Video HD":        4.5,
			"Video SD":        1.5,
			"Instream Video":  3.0,
			"Outstream Video": 2.5,
			"Bumper Video":    1.0,
			"Rewarded Video":  3.5,
			"Masthead":        4.0,
			"Display":         0.25,
			"Banner":          0.25,
			"Native":          0.15,
			"Audio":           1.0,
			"Podcast":         1.5,
			"DOOH":            0.01,
			FallbackKey:       0.3,
		},
		NetworkFactors: map[string]float64{
			"WiFi":      0.018, // 18 gCO2/GB
			"Fiber":     0.018,
			"Fixed":     0.018,
			"5G":        0.035,
			"4G":        0.050,
			"Cellular":  0.050,
			FallbackKey: 0.025,
		},
		DeviceFactors: map[string]float64{
			"Desktop":   1.0,
			"Laptop":    1.0,
			"Mobile":    0.6,
			"Tablet":    0.75,
			"CTV":       2.5,
			FallbackKey: 0.8,
		},
		AdTechFactors: map[string]float64{
			// Tier 1: direct deals and the large integrated platforms
			"Direct": 1.0, "Google": 1.0, "DV360": 1.0, "Meta": 1.0,
			"Facebook": 1.0, "Amazon": 1.0,
			"Xandr": 1.2, "Microsoft": 1.2,
			// Tier 2: major open-auction SSPs
			"PubMatic": 1.5, "Magnite": 1.5, "Rubicon": 1.5,
			"Index Exchange": 1.5, "OpenX": 1.5, "Criteo": 1.5,
			"TripleLift": 1.5, "Sovrn": 1.5, "Adform": 1.5,
			// Long tail
			FallbackKey: 1.5,
		},
		GridIntensity: map[string]float64{
			// Europe, low carbon
			"NO": 12, "NORWAY": 12, "IS": 25, "ICELAND": 25,
			"SE": 55, "SWEDEN": 55, "FI": 80, "FINLAND": 80,
			"FR": 50, "FRANCE": 50, "CH": 35, "SWITZERLAND": 35,
			"AT": 120, "AUSTRIA": 120, "DK": 150, "DENMARK": 150,
			"PT": 220, "PORTUGAL": 220, "ES": 250, "SPAIN": 250,
			// Europe, medium
			"BE": 180, "BELGIUM": 180, "UK": 220, "UNITED KINGDOM": 220,
			"GB": 220, "IT": 280, "ITALY": 280, "IE": 350, "IRELAND": 350,
			"NL": 380, "NETHERLANDS": 380, "RO": 300, "ROMANIA": 300,
			// Europe, high
			"DE": 450, "GERMANY": 450, "PL": 700, "POLAND": 700,
			"CZ": 480, "CZECH REPUBLIC": 480, "GR": 420, "GREECE": 420,
			"EE": 680, "ESTONIA": 680,
			// Americas
			"CA": 150, "CANADA": 150, "US": 384, "USA": 384,
			"UNITED STATES": 384, "MX": 450, "MEXICO": 450,
			"BR": 120, "BRAZIL": 120, "AR": 350, "ARGENTINA": 350,
			"CL": 420, "CHILE": 420, "CO": 180, "COLOMBIA": 180,
			// Asia-Pacific
			"NZ": 120, "NEW ZEALAND": 120, "JP": 480, "JAPAN": 480,
			"KR": 480, "SOUTH KOREA": 480, "TW": 520, "TAIWAN": 520,
			"SG": 420, "SINGAPORE": 420, "CN": 550, "CHINA": 550,
			"IN": 650, "INDIA": 650, "ID": 680, "INDONESIA": 680,
			"TH": 480, "THAILAND": 480, "VN": 520, "VIETNAM": 520,
			"PH": 580, "PHILIPPINES": 580, "MY": 520, "MALAYSIA": 520,
			"AU": 680, "AUSTRALIA": 680,
			// Middle East / Africa
			"AE": 480, "UAE": 480, "SA": 580, "SAUDI ARABIA": 580,
			"IL": 520, "ISRAEL": 520, "QA": 600, "QATAR": 600,
			"ZA": 880, "SOUTH AFRICA": 880, "EG": 480, "EGYPT": 480,
			"NG": 420, "NIGERIA": 420, "KE": 320, "KENYA": 320,
			"MA": 680, "MOROCCO": 680,
		},
		USStateGridIntensity: map[string]float64{
			"AL": 450, "AK": 180, "AZ": 420, "AR": 520, "CA": 220,
			"CO": 480, "CT": 280, "DE": 350, "FL": 450, "GA": 420,
			"HI": 600, "ID": 150, "IL": 280, "IN": 520, "IA": 450,
			"KS": 480, "KY": 620, "LA": 550, "ME": 280, "MD": 350,
			"MA": 300, "MI": 420, "MN": 380, "MS": 520, "MO": 520,
			"MT": 280, "NE": 500, "NV": 380, "NH": 350, "NJ": 320,
			"NM": 480, "NY": 180, "NC": 420, "ND": 400, "OH": 580,
			"OK": 450, "OR": 200, "PA": 380, "RI": 300, "SC": 420,
			"SD": 450, "TN": 450, "TX": 420, "UT": 380, "VT": 220,
			"VA": 380, "WA": 180, "WV": 650, "WI": 400, "WY": 550,
			"DC": 350,
		},
		GridDefault: 400, // world average gCO2/kWh
		GridScale:   0.0001,
		AdTechBase:  0.01,
		Benchmarks: []BenchmarkBand{
			{Label: "Excellent", Max: 50},
			{Label: "Good", Max: 150},
			{Label: "High", Max: 400},
			{Label: "Critical"},
		},
		Scenarios: []ScenarioSpec{
			{Name: "Creative Optimization", Reduction: 0.15},
			{Name: "WiFi Delivery Shift (60%)", Reduction: 0.20},
			{Name: "Low-Carbon Grid Targeting", Reduction: 0.25},
			{Name: "Supply Path Optimization", Reduction: 0.10},
			{Name: "Green Champion (combined)", Reduction: 0.45},
		},
		CarbonPriceEURPerKg: 0.10, // 100 EUR per tonne
		TransportEmissions: map[string]float64{
			"Petrol car":        192, // gCO2/km
			"Electric car":      53,
			"Short-haul flight": 254,
			"Train":             14,
		},
	}
}
