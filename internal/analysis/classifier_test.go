package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

func TestCoerceImpressions(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"1000", 1000},
		{" 1,234,567 ", 1234567},
		{"1 000 000", 1000000},
		{"2500.0", 2500},
		{"", 0},
		{"n/a", 0},
		{"-50", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceImpressions(tt.raw), "raw %q", tt.raw)
	}
}

func TestInferFormatPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		// The pixel pattern always outranks keywords, even in one string.
		{"pixel beats strong keyword", []string{"300x250 Instream Video"}, "300x250"},
		{"pixel in later candidate", []string{"Rich Media", "728x90"}, "728x90"},
		{"instream", []string{"In-Stream Video Ad"}, "Instream Video"},
		{"outstream", []string{"outstream unit"}, "Outstream Video"},
		{"bare video", []string{"Video Companion"}, "Video"},
		{"masthead", []string{"YouTube Masthead"}, "Masthead"},
		{"native generic", []string{"native article"}, "Native"},
		{"audio generic", []string{"podcast midroll"}, "Audio"},
		{"dooh generic", []string{"DOOH screen"}, "DOOH"},
		{"banner generic", []string{"standard banner"}, "Display"},
		{"strong beats generic across candidates", []string{"native", "instream"}, "Instream Video"},
		{"no signal defaults", []string{"", "  "}, "Display"},
		{"nothing defaults", nil, "Display"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferFormat(tt.candidates))
		})
	}
}

func TestInferNetworkType(t *testing.T) {
	tests := []struct {
		name    string
		network string
		device  string
		want    string
	}{
		{"wifi text", "WiFi", "Mobile", NetworkWiFi},
		{"wlan text", "corporate wlan", "", NetworkWiFi},
		{"fiber text", "Fixed Broadband", "", NetworkFiber},
		{"5g text", "5G NSA", "", Network5G},
		{"4g before cellular", "Mobile 4G LTE", "", Network4G},
		{"3g is cellular", "3G roaming", "", NetworkCellular},
		{"device fallback mobile", "", "Smartphone", NetworkCellular},
		{"device fallback desktop", "", "Desktop", NetworkWiFi},
		{"network wins over device", "wifi", "Smartphone", NetworkWiFi},
		{"no signal", "", "", NetworkUnknown},
		{"unrecognized everywhere", "carrier pigeon", "toaster", NetworkUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferNetworkType(tt.network, tt.device))
		})
	}
}

func TestInferDeviceCategory(t *testing.T) {
	tests := []struct {
		device string
		want   string
	}{
		{"Desktop", DeviceDesktop},
		{"laptop computer", DeviceDesktop},
		{"Smartphone", DeviceMobile},
		{"iPad", DeviceTablet},
		{"Connected TV", DeviceCTV},
		{"smart tv", DeviceCTV},
		{"", DeviceUnknown},
		{"fridge", DeviceUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferDeviceCategory(tt.device), "device %q", tt.device)
	}
}

func TestResolveAdTechPath(t *testing.T) {
	tests := []struct {
		name     string
		dealType string
		exchange string
		want     string
	}{
		{"deal type beats exchange", "Programmatic Guaranteed", "PubMatic", "Direct"},
		{"pmp token", "PMP Standard", "OpenX", "Direct"},
		{"private token", "Private Auction", "", "Direct"},
		{"open auction uses exchange", "Open Auction", "Google AdX", "Google AdX"},
		{"exchange only", "", "Magnite", "Magnite"},
		{"nothing", "", "", factors.FallbackKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAdTechPath(tt.dealType, tt.exchange))
		})
	}
}

func TestClassifyRow(t *testing.T) {
	ds := NewDataset(
		[]string{"Impressions", "Device", "Country", "State", "Creative Size", "Exchange", "Deal Type"},
		[][]string{
			{"1,000,000", "Desktop", "US", "CA", "300x250", "PubMatic", "Open Auction"},
		},
	)
	resolved, err := ResolveColumns(ds.Columns)
	require.NoError(t, err)

	classifier := NewClassifier(ds, resolved, factors.Defaults(), true)
	rec := classifier.Classify(ds.Rows[0])

	assert.Equal(t, int64(1000000), rec.Impressions)
	assert.Equal(t, "300x250", rec.Format)
	assert.InDelta(t, 0.35, rec.CreativeWeightMB, 1e-9)
	assert.Equal(t, NetworkWiFi, rec.NetworkType)
	assert.InDelta(t, 1.0, rec.DeviceFactor, 1e-9)
	assert.InDelta(t, 220, rec.GridIntensity, 1e-9) // California override
	assert.InDelta(t, 1.5, rec.AdTechFactor, 1e-9)
	assert.Equal(t, "Desktop", rec.Raw["Device"])
}

func TestClassifyRowAllColumnsAbsent(t *testing.T) {
	// Only impressions resolves; every classifier must take its explicit
	// column-absent branch and land on a default.
	ds := NewDataset([]string{"Impressions"}, [][]string{{"500"}})
	resolved, err := ResolveColumns(ds.Columns)
	require.NoError(t, err)

	tables := factors.Defaults()
	rec := NewClassifier(ds, resolved, tables, false).Classify(ds.Rows[0])

	assert.Equal(t, "Display", rec.Format)
	assert.Equal(t, NetworkUnknown, rec.NetworkType)
	assert.InDelta(t, tables.DeviceFactors[factors.FallbackKey], rec.DeviceFactor, 1e-9)
	assert.InDelta(t, tables.GridDefault, rec.GridIntensity, 1e-9)
	assert.InDelta(t, tables.AdTechFactors[factors.FallbackKey], rec.AdTechFactor, 1e-9)
	assert.Nil(t, rec.Raw)
}
