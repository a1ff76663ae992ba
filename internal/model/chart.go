package model

import "time"

// ModelPoint pairs the log-growth model price with the observed price, if any.
type ModelPoint struct {
	Date           string   `json:"date"`
	DaysSinceEpoch int      `json:"days_since_epoch"`
	ModelPrice     float64  `json:"model_price"`
	ActualPrice    *float64 `json:"actual_price,omitempty"`
}

// CalendarCell is one day of a month grid.
// PriceChangePct is relative to the previous calendar date, not the previous trading day.
type CalendarCell struct {
	Day            int      `json:"day"`
	Price          *float64 `json:"price,omitempty"`
	PriceChangePct *float64 `json:"price_change_pct,omitempty"`
}

// CalendarMonth is a rendered month grid.
type CalendarMonth struct {
	Year  int            `json:"year"`
	Month time.Month     `json:"month"`
	Cells []CalendarCell `json:"cells"`
}

// Snapshot is the headline view refreshed by the scheduler.
type Snapshot struct {
	LatestDate     string           `json:"latest_date,omitempty"`
	LatestPrice    float64          `json:"latest_price,omitempty"`
	YTDReturnPct   *float64         `json:"ytd_return_pct"`
	ModelPrice     float64          `json:"model_price,omitempty"`
	ValuationRatio *float64         `json:"valuation_ratio"`
	AHR999         *ClassifiedPoint `json:"ahr999,omitempty"`
	TakenAt        time.Time        `json:"taken_at"`
}
