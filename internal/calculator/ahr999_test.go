package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestClassifyPhase_AllBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  model.MarketPhase
	}{
		{0.01, model.PhaseBottomFishing},
		{0.4499, model.PhaseBottomFishing},
		{0.45, model.PhaseDCAZone},
		{1.19, model.PhaseDCAZone},
		{1.2, model.PhaseBullMarket},
		{3.999, model.PhaseBullMarket},
		{4, model.PhaseExtremeOvervaluation},
		{12, model.PhaseExtremeOvervaluation},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPhase(tt.value), "value %v", tt.value)
	}
}

func indexPoints(values ...float64) []model.DailyIndexPoint {
	out := make([]model.DailyIndexPoint, len(values))
	for i, v := range values {
		out[i] = model.DailyIndexPoint{
			Date:       model.FormatDate(2024, 1, i+1),
			IndexValue: v,
		}
	}
	return out
}

func TestSummarizeZones_OnePerZone(t *testing.T) {
	counts := SummarizeZones(indexPoints(0.3, 0.5, 1.3, 4.1), AllDates)
	assert.Equal(t, model.ZoneCounts{
		model.PhaseBottomFishing:        1,
		model.PhaseDCAZone:              1,
		model.PhaseBullMarket:           1,
		model.PhaseExtremeOvervaluation: 1,
	}, counts)
	assert.Equal(t, 4, counts.Total())
}

func TestSummarizeZones_RangeAndInvalidPoints(t *testing.T) {
	pts := append(indexPoints(0.3, 0, -1), model.DailyIndexPoint{Date: "2023-12-31", IndexValue: 0.2})
	counts := SummarizeZones(pts, YearRange(2024))
	assert.Equal(t, 1, counts[model.PhaseBottomFishing])
	assert.Equal(t, 0, counts[model.PhaseDCAZone])
	assert.Equal(t, 1, counts.Total())

	all := SummarizeZones(pts, AllDates)
	assert.Equal(t, 2, all[model.PhaseBottomFishing])
}

func TestClassifySeries_TrendAndOrder(t *testing.T) {
	pts := indexPoints(0.5, 0.7, 0.7, 0.6)
	// Shuffle to check ordering.
	pts[0], pts[3] = pts[3], pts[0]

	out := ClassifySeries(pts)
	require.Len(t, out, 4)
	assert.Equal(t, "2024-01-01", out[0].Date)
	assert.Equal(t, model.TrendNone, out[0].Trend)
	assert.Equal(t, model.TrendUp, out[1].Trend)
	assert.Equal(t, model.TrendFlat, out[2].Trend)
	assert.Equal(t, model.TrendDown, out[3].Trend)
	for _, p := range out {
		assert.Equal(t, model.PhaseDCAZone, p.Phase)
	}

	latest := LatestPoint(out)
	require.NotNil(t, latest)
	assert.Equal(t, "2024-01-04", latest.Date)
	assert.Nil(t, LatestPoint(nil))
}

func TestTrendBetween_NoPrevious(t *testing.T) {
	assert.Equal(t, model.TrendNone, TrendBetween(nil, model.DailyIndexPoint{IndexValue: 1}))
	assert.Equal(t, "none", model.TrendNone.String())
}

func TestPhaseChanged(t *testing.T) {
	a := &model.ClassifiedPoint{Phase: model.PhaseDCAZone}
	b := &model.ClassifiedPoint{Phase: model.PhaseBullMarket}
	assert.True(t, PhaseChanged(a, b))
	assert.False(t, PhaseChanged(a, a))
	assert.False(t, PhaseChanged(nil, b))
}
