package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestGeometricMean(t *testing.T) {
	g, err := GeometricMean([]float64{1000, 1, 10, 100}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 10, g, 1e-9)

	_, err = GeometricMean([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = GeometricMean([]float64{1, 0, 2}, 3)
	assert.Error(t, err)
	_, err = GeometricMean(nil, 0)
	assert.Error(t, err)
}

func TestAHR999Index(t *testing.T) {
	days := 5586
	mp := ModelPrice(days)
	v, ok := AHR999Index(mp, mp, days)
	require.True(t, ok)
	assert.InDelta(t, 1, v, 1e-9)

	_, ok = AHR999Index(100, 0, days)
	assert.False(t, ok)
}

// dailySeries builds n consecutive daily closes starting at start.
func dailySeries(start time.Time, prices ...float64) *model.PriceSeries {
	m := make(map[string]float64, len(prices))
	for i, p := range prices {
		m[start.AddDate(0, 0, i).Format(model.DateLayout)] = p
	}
	return model.NewPriceSeries(m)
}

func TestAHR999EntriesNeedFullWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, 100, 400, 0, 1600)

	entries := AHR999Entries(series, 2)
	// the zero close is skipped, so 2024-01-04 pairs with 2024-01-02
	require.Len(t, entries, 2)
	assert.NotContains(t, entries, "2024-01-01")

	e := entries["2024-01-02"]
	assert.InDelta(t, 200, e.Avg200DayCost, 1e-9)
	assert.Equal(t, 400.0, e.DailyClose)
	days := DaysSinceEpoch(start.AddDate(0, 0, 1))
	assert.InDelta(t, (400.0/200)*(400/ModelPrice(days)), e.AHR999, 1e-9)

	assert.InDelta(t, 800, entries["2024-01-04"].Avg200DayCost, 1e-9)
	assert.Empty(t, AHR999Entries(series, 0))
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	rsi, err := CalculateRSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	_, err = CalculateRSI([]float64{1, 2}, 14)
	assert.Error(t, err)

	alt := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	rsi, err = CalculateRSI(alt, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50, rsi, 1e-9)

	_, err = CalculateRSI(rising, 0)
	assert.Error(t, err)
}

func TestWindowRange(t *testing.T) {
	h, l, err := WindowRange([]float64{50, 1, 7, 3, 9}, 3)
	require.NoError(t, err)
	assert.Equal(t, 9.0, h)
	assert.Equal(t, 3.0, l)

	_, _, err = WindowRange([]float64{5, 2}, 10)
	assert.Error(t, err)

	_, _, err = WindowRange(nil, 3)
	assert.Error(t, err)

	pos, err := RangePosition(15, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos)
	pos, _ = RangePosition(7, 7, 7)
	assert.Equal(t, 0.5, pos)
	_, err = RangePosition(1, 1, 2)
	assert.Error(t, err)
}

func TestMarketStats(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	series := dailySeries(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 60000, 70000, 56000)

	doc := MarketStats(series, now)
	assert.Equal(t, "2024-05-03", doc[StatLatestDate])
	assert.Equal(t, 56000.0, doc[StatLatestPrice])
	assert.Equal(t, "2024-05-02", doc[StatAthDate])
	assert.InDelta(t, 20, doc[StatDrawdownFromAth].(float64), 1e-9)
	assert.Equal(t, 30, doc[StatDaysSinceHalving])
	// three closes cannot fill any window
	for _, k := range []string{StatHigh365d, StatLow365d, StatPosition365d, StatHigh30d, StatLow30d, StatRSI14} {
		assert.NotContains(t, doc, k)
	}

	empty := MarketStats(model.NewPriceSeries(nil), now)
	assert.NotContains(t, empty, StatLatestPrice)
	assert.Contains(t, empty, StatUpdatedAt)
}

func TestMarketStats_FullWindows(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	closes := make([]float64, 400)
	for i := range closes {
		closes[i] = float64(1000 + i)
	}
	closes[len(closes)-1] = 1200
	series := dailySeries(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), closes...)

	doc := MarketStats(series, now)
	assert.Equal(t, 1398.0, doc[StatHigh365d])
	assert.Equal(t, 1035.0, doc[StatLow365d])
	assert.InDelta(t, (1200.0-1035)/(1398-1035), doc[StatPosition365d].(float64), 1e-9)
	assert.Equal(t, 1398.0, doc[StatHigh30d])
	assert.Equal(t, 1200.0, doc[StatLow30d])
	rsi := doc[StatRSI14].(float64)
	assert.False(t, math.IsNaN(rsi))
	assert.Less(t, rsi, 100.0)
}
