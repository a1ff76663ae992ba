package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestHistoricalCycles_DrawdownRoundTrip(t *testing.T) {
	cycles := HistoricalCycles()
	require.GreaterOrEqual(t, len(cycles), 3)
	for _, c := range cycles {
		want := (c.AthPrice - c.TroughPrice) / c.AthPrice * 100
		assert.LessOrEqual(t, math.Abs(c.DrawdownPct-want)/want, 1e-6, "cycle %s", c.HalvingDate)
		assert.NoError(t, Validate(c), "cycle %s", c.HalvingDate)
	}
}

func TestHistoricalCycles_ReturnsCopy(t *testing.T) {
	c := HistoricalCycles()
	c[0].AthPrice = 1
	assert.NotEqual(t, 1.0, HistoricalCycles()[0].AthPrice)
}

func TestValidate_Problems(t *testing.T) {
	good := HistoricalCycles()[1]

	bad := good
	bad.DrawdownPct = 50
	assert.ErrorContains(t, Validate(bad), "drawdown_pct")

	bad = good
	bad.DaysHalvingToAth++
	assert.ErrorContains(t, Validate(bad), "days_halving_to_ath")

	bad = good
	bad.TroughDate = "2017-01-01"
	assert.Error(t, Validate(bad))

	bad = good
	bad.AthDate = "not-a-date"
	assert.Error(t, Validate(bad))
}

func TestCycleAverages(t *testing.T) {
	avg := CycleAverages(HistoricalCycles())
	assert.Equal(t, 3, avg.Cycles)
	assert.InDelta(t, (371.0+526+548)/3, avg.DaysHalvingToAth, 1e-9)
	assert.InDelta(t, (406.0+363+376)/3, avg.DaysAthToTrough, 1e-9)

	empty := CycleAverages(nil)
	assert.Equal(t, 0, empty.Cycles)
	assert.Equal(t, 0.0, empty.DrawdownPct)
}

func TestCompare_FlagsInvalidPrediction(t *testing.T) {
	dd, _ := Drawdown(150000, 60000)
	good := model.HalvingCycleRecord{
		Source:           "model-a",
		HalvingDate:      "2024-04-20",
		PriceAtHalving:   64000,
		AthDate:          "2025-10-06",
		AthPrice:         150000,
		DaysHalvingToAth: 534,
		TroughDate:       "2026-10-06",
		TroughPrice:      60000,
		DrawdownPct:      dd,
		DaysAthToTrough:  365,
	}
	bad := good
	bad.Source = "model-b"
	bad.DrawdownPct = 10

	hist := HistoricalCycles()
	out := Compare([]model.HalvingCycleRecord{good, bad}, hist)
	require.Len(t, out, 2)

	assert.True(t, out[0].Valid, out[0].Problem)
	avg := CycleAverages(hist)
	assert.InDelta(t, 534-avg.DaysHalvingToAth, out[0].DaysToAthDelta, 1e-9)
	assert.InDelta(t, 150000.0/64000, out[0].AthMultipleOfHalving, 1e-9)

	assert.False(t, out[1].Valid)
	assert.NotEmpty(t, out[1].Problem)
}

func TestCycleProgress(t *testing.T) {
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)
	p, err := CycleProgress(CurrentHalvingDate, now)
	require.NoError(t, err)
	assert.Equal(t, 10, p.DaysSinceHalving)

	p, err = CycleProgress(CurrentHalvingDate, now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, p.DaysSinceHalving)

	_, err = CycleProgress("bogus", now)
	assert.Error(t, err)
}
