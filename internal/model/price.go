package model

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// DateLayout is the ISO calendar-date layout used for every date key.
const DateLayout = "2006-01-02"

// PriceSeries is an immutable date -> price snapshot.
// Lookups go through the map; period scans use the sorted key slice.
type PriceSeries struct {
	prices map[string]float64
	dates  []string
}

// NewPriceSeries copies prices into a new series. Keys that are not valid
// YYYY-MM-DD dates and values that are not finite are dropped.
func NewPriceSeries(prices map[string]float64) *PriceSeries {
	s := &PriceSeries{
		prices: make(map[string]float64, len(prices)),
		dates:  make([]string, 0, len(prices)),
	}
	for date, p := range prices {
		if !ValidDate(date) || math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		s.prices[date] = p
		s.dates = append(s.dates, date)
	}
	// ISO dates sort lexicographically in chronological order.
	sort.Strings(s.dates)
	return s
}

// Price returns the price observed on date.
func (s *PriceSeries) Price(date string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	p, ok := s.prices[date]
	return p, ok
}

// PricePtr is Price as an optional value.
func (s *PriceSeries) PricePtr(date string) *float64 {
	if p, ok := s.Price(date); ok {
		return &p
	}
	return nil
}

// Len returns the number of observed dates.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dates)
}

// Dates returns all observed dates in ascending order. The slice must not be modified.
func (s *PriceSeries) Dates() []string {
	if s == nil {
		return nil
	}
	return s.dates
}

// DatesInYear returns the ascending observed dates that fall in year.
func (s *PriceSeries) DatesInYear(year int) []string {
	if s == nil {
		return nil
	}
	from := strconv.Itoa(year) + "-01-01"
	to := strconv.Itoa(year+1) + "-01-01"
	lo := sort.SearchStrings(s.dates, from)
	hi := sort.SearchStrings(s.dates, to)
	return s.dates[lo:hi]
}

// Latest returns the most recent observation.
func (s *PriceSeries) Latest() (date string, price float64, ok bool) {
	if s.Len() == 0 {
		return "", 0, false
	}
	date = s.dates[len(s.dates)-1]
	return date, s.prices[date], true
}

// Merge returns a new series holding both snapshots; other wins on duplicate dates.
func (s *PriceSeries) Merge(other *PriceSeries) *PriceSeries {
	merged := make(map[string]float64, s.Len()+other.Len())
	if s != nil {
		for k, v := range s.prices {
			merged[k] = v
		}
	}
	if other != nil {
		for k, v := range other.prices {
			merged[k] = v
		}
	}
	return NewPriceSeries(merged)
}

// ValidDate reports whether date is a well-formed YYYY-MM-DD calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}
