package calculator

import (
	"fmt"
	"time"

	"CoinLens/internal/model"
)

// DaysInMonth returns the length of month in year, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PrevDate returns the calendar date immediately before year-month-day,
// rolling into the previous month and year as needed.
func PrevDate(year int, month time.Month, day int) (int, time.Month, int) {
	day--
	if day >= 1 {
		return year, month, day
	}
	month--
	if month < time.January {
		month = time.December
		year--
	}
	return year, month, DaysInMonth(year, month)
}

// CalendarMonth builds the day grid for one month. A cell's change is
// measured against the previous calendar date, which may belong to the
// previous month or year; the change is absent when either price is.
func CalendarMonth(series *model.PriceSeries, year int, month time.Month) ([]model.CalendarCell, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month %d out of range", month)
	}

	n := DaysInMonth(year, month)
	cells := make([]model.CalendarCell, n)
	for day := 1; day <= n; day++ {
		cell := model.CalendarCell{Day: day}
		price, ok := series.Price(model.FormatDate(year, month, day))
		if ok {
			cell.Price = &price
			py, pm, pd := PrevDate(year, month, day)
			if prev, ok := series.Price(model.FormatDate(py, pm, pd)); ok {
				if pct, ok := ComputeReturn(prev, price); ok {
					cell.PriceChangePct = &pct
				}
			}
		}
		cells[day-1] = cell
	}
	return cells, nil
}
