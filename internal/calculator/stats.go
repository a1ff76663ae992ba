package calculator

import (
	"time"

	"CoinLens/internal/model"
)

// Stats document keys.
const (
	StatLatestDate       = "latest_date"
	StatLatestPrice      = "latest_price"
	StatAthDate          = "ath_date"
	StatAthPrice         = "ath_price"
	StatDrawdownFromAth  = "drawdown_from_ath_pct"
	StatHigh365d         = "high_365d"
	StatLow365d          = "low_365d"
	StatPosition365d     = "position_365d"
	StatHigh30d          = "high_30d"
	StatLow30d           = "low_30d"
	StatRSI14            = "rsi_14"
	StatDaysSinceHalving = "days_since_halving"
	StatUpdatedAt        = "updated_at"
)

// MarketStats summarizes a price series into the aggregate statistics
// document. Keys whose inputs are missing are left out.
func MarketStats(series *model.PriceSeries, now time.Time) model.StatsDocument {
	doc := model.StatsDocument{StatUpdatedAt: now.UTC().Format(time.RFC3339)}
	if p, err := CycleProgress(CurrentHalvingDate, now); err == nil {
		doc[StatDaysSinceHalving] = p.DaysSinceHalving
	}

	date, latest, ok := series.Latest()
	if !ok {
		return doc
	}
	doc[StatLatestDate] = date
	doc[StatLatestPrice] = latest

	dates := series.Dates()
	closes := make([]float64, len(dates))
	athDate, athPrice := "", 0.0
	for i, d := range dates {
		p, _ := series.Price(d)
		closes[i] = p
		if p > athPrice {
			athDate, athPrice = d, p
		}
	}
	if athDate != "" {
		doc[StatAthDate] = athDate
		doc[StatAthPrice] = athPrice
		if dd, ok := Drawdown(athPrice, latest); ok {
			doc[StatDrawdownFromAth] = dd
		}
	}

	if h, l, err := WindowRange(closes, 365); err == nil {
		doc[StatHigh365d] = h
		doc[StatLow365d] = l
		if pos, err := RangePosition(latest, h, l); err == nil {
			doc[StatPosition365d] = pos
		}
	}
	if h, l, err := WindowRange(closes, 30); err == nil {
		doc[StatHigh30d] = h
		doc[StatLow30d] = l
	}
	if rsi, err := CalculateRSI(closes, 14); err == nil {
		doc[StatRSI14] = rsi
	}
	return doc
}
