package calculator

import (
	"errors"
	"math"
	"time"

	"CoinLens/internal/model"
)

// AHR999Window is the number of daily closes in the geometric cost average.
const AHR999Window = 200

// GeometricMean computes the geometric mean of the last period prices.
func GeometricMean(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for geometric mean")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		if prices[i] <= 0 {
			return 0, errors.New("geometric mean needs positive prices")
		}
		sum += math.Log(prices[i])
	}
	return math.Exp(sum / float64(period)), nil
}

// AHR999Index is (price / gma200) * (price / model price).
func AHR999Index(price, gma200 float64, days int) (float64, bool) {
	mp := ModelPrice(days)
	if gma200 <= 0 || mp <= 0 || price <= 0 {
		return 0, false
	}
	v := (price / gma200) * (price / mp)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// AHR999Entries computes the index for every date that closes a full window
// of positive prices. The window counts observations, not calendar days.
func AHR999Entries(series *model.PriceSeries, window int) map[string]model.AHR999Entry {
	out := make(map[string]model.AHR999Entry)
	if window <= 0 {
		return out
	}

	dates := make([]string, 0, series.Len())
	prices := make([]float64, 0, series.Len())
	for _, d := range series.Dates() {
		p, _ := series.Price(d)
		if p <= 0 {
			continue
		}
		dates = append(dates, d)
		prices = append(prices, p)
	}

	for i := window - 1; i < len(dates); i++ {
		d := dates[i]
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			continue
		}
		gma, err := GeometricMean(prices[:i+1], window)
		if err != nil {
			continue
		}
		price := prices[i]
		v, ok := AHR999Index(price, gma, DaysSinceEpoch(t))
		if !ok {
			continue
		}
		out[d] = model.AHR999Entry{AHR999: v, DailyClose: price, Avg200DayCost: gma}
	}
	return out
}
