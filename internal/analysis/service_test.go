package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
)

func TestServiceAnalyzeAndGet(t *testing.T) {
	store := NewStore(time.Hour, nil)
	service := NewService(factors.Defaults(), Options{}, store, zap.NewNop())

	ds := NewDataset(campaignColumns, [][]string{
		{"A", "1000", "Desktop", "FR", "", "WiFi", "300x250", "", "", ""},
	})

	result, err := service.Analyze(context.Background(), "report.csv", ds)
	require.NoError(t, err)
	assert.NotEqual(t, result.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "report.csv", result.FileName)
	assert.WithinDuration(t, time.Now().UTC(), result.CreatedAt, time.Minute)

	got, ok := service.Get(context.Background(), result.ID)
	require.True(t, ok)
	assert.Equal(t, result.ID, got.ID)
}

func TestServiceAnalyzeError(t *testing.T) {
	service := NewService(factors.Defaults(), Options{}, NewStore(time.Hour, nil), zap.NewNop())

	_, err := service.Analyze(context.Background(),
		"bad.csv", NewDataset([]string{"Device"}, [][]string{{"Desktop"}}))
	assert.ErrorIs(t, err, ErrImpressionsColumn)
	assert.Equal(t, 0, service.store.Len(), "failed runs are never stored")
}
