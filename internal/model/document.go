package model

import (
	"sort"
	"strconv"
	"time"
)

// Collection names in the document store.
const (
	CollectionPrices  = "btc_prices"
	CollectionAHR999  = "ahr999"
	CollectionHalving = "halving"
	CollectionStats   = "btc_stats"
)

// Singleton document ids.
const (
	HalvingDocumentID = "latest"
	StatsDocumentID   = "latest"
)

// PriceDocument is a year of daily closing prices.
type PriceDocument struct {
	Year        string             `json:"year"`
	Prices      map[string]float64 `json:"prices"`
	LastUpdated time.Time          `json:"last_updated"`
}

// Series converts the document into a PriceSeries.
func (d *PriceDocument) Series() *PriceSeries {
	if d == nil {
		return NewPriceSeries(nil)
	}
	return NewPriceSeries(d.Prices)
}

// AHR999Entry is one day inside an AHR999Document.
type AHR999Entry struct {
	AHR999        float64 `json:"ahr999"`
	DailyClose    float64 `json:"daily_close"`
	Avg200DayCost float64 `json:"avg_200_day_cost"`
}

// AHR999Document is a year of precomputed AHR999 values.
type AHR999Document struct {
	Year         string                 `json:"year"`
	DailyIndices map[string]AHR999Entry `json:"daily_indices"`
	LastUpdated  time.Time              `json:"last_updated"`
}

// Points flattens the document into date-ordered index points.
func (d *AHR999Document) Points() []DailyIndexPoint {
	if d == nil {
		return nil
	}
	points := make([]DailyIndexPoint, 0, len(d.DailyIndices))
	for date, e := range d.DailyIndices {
		if !ValidDate(date) {
			continue
		}
		points = append(points, DailyIndexPoint{
			Date:       date,
			IndexValue: e.AHR999,
			SpotPrice:  e.DailyClose,
			Avg200:     e.Avg200DayCost,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// HalvingDocument carries the next-halving estimate.
type HalvingDocument struct {
	EstimatedHalvingTime time.Time `json:"estimated_halving_time"`
	CurrentBlockHeight   int64     `json:"current_block_height,omitempty"`
	NextHalvingHeight    int64     `json:"next_halving_height,omitempty"`
	BlocksRemaining      int64     `json:"blocks_remaining,omitempty"`
	LastUpdated          time.Time `json:"last_updated"`
}

// StatsDocument is the aggregate statistics document, passed through as-is.
type StatsDocument map[string]any

// YearKey renders a year as a document id.
func YearKey(year int) string {
	return strconv.Itoa(year)
}
