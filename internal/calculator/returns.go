package calculator

import (
	"math"

	"CoinLens/internal/model"
)

// ComputeReturn returns (last-first)/first*100. ok is false when first is
// not a usable denominator (zero, negative, NaN or infinite).
func ComputeReturn(first, last float64) (pct float64, ok bool) {
	if !(first > 0) || math.IsInf(first, 0) || math.IsNaN(last) || math.IsInf(last, 0) {
		return 0, false
	}
	return (last - first) / first * 100, true
}

func boundsReturn(period model.PeriodID, b *PeriodBounds) model.PeriodReturn {
	r := model.PeriodReturn{Period: period, Label: period.Label()}
	if b == nil || b.Count == 0 {
		return r
	}
	if pct, ok := ComputeReturn(b.FirstPrice, b.LastPrice); ok {
		r.ReturnPct = &pct
	}
	return r
}

// MonthlyReturns returns twelve entries, January first.
func MonthlyReturns(series *model.PriceSeries, year int) []model.PeriodReturn {
	months := GroupByMonth(series, year)
	out := make([]model.PeriodReturn, 12)
	for i, b := range months {
		out[i] = boundsReturn(model.Month(year, i+1), b)
	}
	return out
}

// QuarterlyReturns returns four entries, Q1 first.
func QuarterlyReturns(series *model.PriceSeries, year int) []model.PeriodReturn {
	quarters := GroupByQuarter(series, year)
	out := make([]model.PeriodReturn, 4)
	for i, b := range quarters {
		out[i] = boundsReturn(model.Quarter(year, i+1), b)
	}
	return out
}

// YearlyReturn uses the first and last observed dates within the year.
func YearlyReturn(series *model.PriceSeries, year int) model.PeriodReturn {
	return boundsReturn(model.Year(year), GroupByYear(series, year))
}

// ReturnsTable builds one row per requested year.
func ReturnsTable(series *model.PriceSeries, years []int) []model.YearReturns {
	rows := make([]model.YearReturns, 0, len(years))
	for _, y := range years {
		rows = append(rows, model.YearReturns{
			Year:     y,
			Months:   MonthlyReturns(series, y),
			Quarters: QuarterlyReturns(series, y),
			Total:    YearlyReturn(series, y),
		})
	}
	return rows
}

// AverageReturns averages returns sharing a label (e.g. every "Q1").
// Nil returns are left out of both the sum and the divisor, so a label
// without samples keeps a nil average. Labels keep first-seen order.
func AverageReturns(returns []model.PeriodReturn) []model.PeriodAverage {
	var order []string
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range returns {
		if _, seen := counts[r.Label]; !seen {
			order = append(order, r.Label)
			counts[r.Label] = 0
		}
		if r.ReturnPct == nil {
			continue
		}
		sums[r.Label] += *r.ReturnPct
		counts[r.Label]++
	}

	out := make([]model.PeriodAverage, 0, len(order))
	for _, label := range order {
		avg := model.PeriodAverage{Label: label, Samples: counts[label]}
		if n := counts[label]; n > 0 {
			mean := sums[label] / float64(n)
			avg.AvgPct = &mean
		}
		out = append(out, avg)
	}
	return out
}

// TableAverages averages every month, quarter and year column of a returns table.
func TableAverages(rows []model.YearReturns) []model.PeriodAverage {
	var all []model.PeriodReturn
	for _, row := range rows {
		all = append(all, row.Months...)
	}
	for _, row := range rows {
		all = append(all, row.Quarters...)
	}
	for _, row := range rows {
		all = append(all, row.Total)
	}
	return AverageReturns(all)
}
