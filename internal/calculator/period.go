package calculator

import (
	"strconv"

	"CoinLens/internal/model"
)

// PeriodBounds is the first and last observation inside a period.
type PeriodBounds struct {
	First      string
	Last       string
	FirstPrice float64
	LastPrice  float64
	Count      int
}

func (b *PeriodBounds) add(date string, price float64) {
	// Dates arrive in ascending order, so the first call fixes First.
	if b.Count == 0 {
		b.First, b.FirstPrice = date, price
	}
	b.Last, b.LastPrice = date, price
	b.Count++
}

// GroupByMonth buckets the year's observations by month. Entry i holds
// month i+1 and is nil when the month has no observation.
func GroupByMonth(series *model.PriceSeries, year int) [12]*PeriodBounds {
	var months [12]*PeriodBounds
	for _, date := range series.DatesInYear(year) {
		m := monthOf(date)
		if m < 1 || m > 12 {
			continue
		}
		if months[m-1] == nil {
			months[m-1] = &PeriodBounds{}
		}
		p, _ := series.Price(date)
		months[m-1].add(date, p)
	}
	return months
}

// GroupByQuarter buckets the year's observations into Q1..Q4
// (months 1-3, 4-6, 7-9, 10-12). Entry i holds quarter i+1.
func GroupByQuarter(series *model.PriceSeries, year int) [4]*PeriodBounds {
	var quarters [4]*PeriodBounds
	for _, date := range series.DatesInYear(year) {
		m := monthOf(date)
		if m < 1 || m > 12 {
			continue
		}
		q := model.QuarterOf(m)
		if quarters[q-1] == nil {
			quarters[q-1] = &PeriodBounds{}
		}
		p, _ := series.Price(date)
		quarters[q-1].add(date, p)
	}
	return quarters
}

// GroupByYear returns the first and last observation of the year, or nil.
// Partial years are bounded by what was observed, not by Jan 1 / Dec 31.
func GroupByYear(series *model.PriceSeries, year int) *PeriodBounds {
	dates := series.DatesInYear(year)
	if len(dates) == 0 {
		return nil
	}
	b := &PeriodBounds{}
	for _, date := range dates {
		p, _ := series.Price(date)
		b.add(date, p)
	}
	return b
}

func monthOf(date string) int {
	if len(date) < 7 {
		return 0
	}
	m, err := strconv.Atoi(date[5:7])
	if err != nil {
		return 0
	}
	return m
}
