package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2023, time.January, 31},
		{2023, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestPrevDate_Rollover(t *testing.T) {
	y, m, d := PrevDate(2024, time.January, 1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 31, d)

	y, m, d = PrevDate(2024, time.March, 1)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.February, m)
	assert.Equal(t, 29, d)

	y, m, d = PrevDate(2023, time.March, 1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.February, m)
	assert.Equal(t, 28, d)

	y, m, d = PrevDate(2024, time.July, 15)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.July, m)
	assert.Equal(t, 14, d)
}

func TestCalendarMonth_CrossYearChange(t *testing.T) {
	series := model.NewPriceSeries(map[string]float64{
		"2023-12-31": 100,
		"2024-01-01": 110,
		"2024-01-03": 120, // 2024-01-02 missing
		"2024-01-04": 60,
	})
	cells, err := CalendarMonth(series, 2024, time.January)
	require.NoError(t, err)
	require.Len(t, cells, 31)

	require.NotNil(t, cells[0].PriceChangePct)
	assert.InDelta(t, 10, *cells[0].PriceChangePct, 1e-9)

	assert.Nil(t, cells[1].Price)
	assert.Nil(t, cells[1].PriceChangePct)

	require.NotNil(t, cells[2].Price)
	assert.Nil(t, cells[2].PriceChangePct, "previous calendar day has no price")

	require.NotNil(t, cells[3].PriceChangePct)
	assert.InDelta(t, -50, *cells[3].PriceChangePct, 1e-9)

	assert.Equal(t, 31, cells[30].Day)
}

func TestCalendarMonth_LeapFebruary(t *testing.T) {
	cells, err := CalendarMonth(model.NewPriceSeries(nil), 2024, time.February)
	require.NoError(t, err)
	assert.Len(t, cells, 29)
}

func TestCalendarMonth_InvalidMonth(t *testing.T) {
	_, err := CalendarMonth(model.NewPriceSeries(nil), 2024, 13)
	assert.Error(t, err)
}
