package calculator

import (
	"math"
	"time"

	"CoinLens/internal/model"
)

// Epoch is the chain's first production day (genesis block).
var Epoch = time.Date(2009, time.January, 3, 0, 0, 0, 0, time.UTC)

// Log-growth model coefficients: price = 10^(slope*log10(days) + intercept).
const (
	modelSlope     = 5.84
	modelIntercept = -17.01
)

// DaysSinceEpoch returns whole days between t and Epoch.
func DaysSinceEpoch(t time.Time) int {
	d := t.Sub(Epoch)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

// ModelPrice is the log-growth model price on day `days` after Epoch.
// log10(0) is undefined, so days below 1 are clamped to 1.
func ModelPrice(days int) float64 {
	if days < 1 {
		days = 1
	}
	return math.Pow(10, modelSlope*math.Log10(float64(days))+modelIntercept)
}

// ValuationRatio is price over the model price for the same day.
func ValuationRatio(price float64, days int) (float64, bool) {
	m := ModelPrice(days)
	if !(m > 0) || !(price > 0) {
		return 0, false
	}
	return price / m, true
}

// ModelSeries enumerates every calendar date of year with its model price,
// joining actual prices where observed. Future years simply carry no actuals.
func ModelSeries(series *model.PriceSeries, year int) []model.ModelPoint {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	points := make([]model.ModelPoint, 0, 366)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		days := DaysSinceEpoch(d)
		points = append(points, model.ModelPoint{
			Date:           date,
			DaysSinceEpoch: days,
			ModelPrice:     ModelPrice(days),
			ActualPrice:    series.PricePtr(date),
		})
	}
	return points
}
