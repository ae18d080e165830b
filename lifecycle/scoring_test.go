package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmeams/models"
)

var scoringNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestScoreAllFactors(t *testing.T) {
	assets := []models.Asset{
		{
			AssetID:               "BME-001",
			Name:                  "Ventilator",
			LifecycleState:        StateActive,
			AgeYears:              10, // min(10/5, 2) * 20 = 40
			Value:                 1000,
			TotalServiceCost:      600, // ratio 0.6: min(0.6/0.5, 2) * 20 = 24
			TotalDowntimeHours:    150, // min(150/100, 1.5) * 10 = 15
			UtilizationPercentage: 10,  // (20-10)/20 * 5 = 2.5
		},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, "BME-001", rec.AssetID)
	assert.InDelta(t, 81.5, rec.Score, 0.01)
	assert.Len(t, rec.Reasons, 4)
	assert.Equal(t, RecommendReplace, rec.Recommendation)
	assert.Equal(t, PriorityHigh, rec.Priority)
	assert.InDelta(t, 1100, rec.EstimatedReplacement, 0.01)
}

func TestScoreExcludesInsignificant(t *testing.T) {
	assets := []models.Asset{
		// age 7.5 -> min(7.5/5, 2) * 20 = 30, right on the cutoff
		{AssetID: "BME-010", LifecycleState: StateActive, AgeYears: 7.5},
		// nothing crosses a threshold at all
		{AssetID: "BME-011", LifecycleState: StateActive, AgeYears: 2, UtilizationPercentage: 80},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	assert.Empty(t, got)
}

func TestScoreSkipsDisposedAndFlagged(t *testing.T) {
	assets := []models.Asset{
		{AssetID: "BME-020", LifecycleState: StateDisposed, AgeYears: 20, TotalDowntimeHours: 500},
		{AssetID: "BME-021", LifecycleState: StateActive, AgeYears: 20, ReplacementRecommended: true},
		{AssetID: "BME-022", LifecycleState: StateActive, AgeYears: 20},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 1)
	assert.Equal(t, "BME-022", got[0].AssetID)
}

func TestScoreRecommendationTiers(t *testing.T) {
	// age-only asset: min(age/5, 2) * 20, so 12 years caps at 40
	assets := []models.Asset{
		{AssetID: "monitor-tier", LifecycleState: StateActive, AgeYears: 12},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 1)
	assert.Equal(t, 40.0, got[0].Score)
	assert.Equal(t, RecommendMonitor, got[0].Recommendation)
	assert.Equal(t, PriorityLow, got[0].Priority)
}

func TestScoreSortedDescending(t *testing.T) {
	assets := []models.Asset{
		{AssetID: "low", LifecycleState: StateActive, AgeYears: 12},
		{AssetID: "high", LifecycleState: StateActive, AgeYears: 12, TotalDowntimeHours: 200, Value: 100, TotalServiceCost: 100},
		{AssetID: "mid", LifecycleState: StateActive, AgeYears: 12, TotalDowntimeHours: 120},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].AssetID)
	assert.Equal(t, "mid", got[1].AssetID)
	assert.Equal(t, "low", got[2].AssetID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestScoreIdempotent(t *testing.T) {
	purchased := scoringNow.AddDate(-8, 0, 0)
	assets := []models.Asset{
		{
			AssetID:            "BME-030",
			LifecycleState:     StateInService,
			PurchaseDate:       &purchased,
			Value:              5000,
			TotalServiceCost:   4000,
			TotalDowntimeHours: 90,
		},
	}

	first := Score(assets, DefaultThresholds(), scoringNow)
	second := Score(assets, DefaultThresholds(), scoringNow)
	assert.Equal(t, first, second)
}

func TestScoreUsesPurchaseDateOverStoredAge(t *testing.T) {
	purchased := scoringNow.AddDate(-10, 0, 0)
	assets := []models.Asset{
		{AssetID: "BME-040", LifecycleState: StateActive, PurchaseDate: &purchased, AgeYears: 1},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 1)
	assert.InDelta(t, 10, got[0].AgeYears, 0.05)
	assert.Equal(t, 40.0, got[0].Score)
}

func TestScoreNoValueNoEstimate(t *testing.T) {
	assets := []models.Asset{
		{AssetID: "BME-050", LifecycleState: StateActive, AgeYears: 12},
	}

	got := Score(assets, DefaultThresholds(), scoringNow)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].EstimatedReplacement)
}
