package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"CoinLens/internal/calculator"
	"CoinLens/internal/model"
	"CoinLens/internal/store"
)

// warmupDays are fetched before the first synced year so that its first
// dates already have a full AHR999 window.
const warmupDays = 300

// MockFetcher returns fixed closes for development and testing.
type MockFetcher struct {
	Closes map[string]float64
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, _ string, from, to time.Time) (map[string]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	lo, hi := from.UTC().Format(model.DateLayout), to.UTC().Format(model.DateLayout)
	out := make(map[string]float64)
	for d, p := range m.Closes {
		if d >= lo && d <= hi {
			out[d] = p
		}
	}
	return out, nil
}

// Collector fetches daily closes and writes the derived documents.
type Collector struct {
	Fetcher Fetcher
	Writer  store.Writer
	Symbol  string
	Now     func() time.Time
}

// SyncResult summarizes one Sync.
type SyncResult struct {
	Years       []int `json:"years"`
	Prices      int   `json:"prices"`
	IndexPoints int   `json:"ahr999_points"`
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, w store.Writer, symbol string) *Collector {
	return &Collector{Fetcher: fetcher, Writer: w, Symbol: symbol, Now: time.Now}
}

// Sync fetches closes from fromYear through today and rewrites the year
// documents for prices and AHR999 plus the latest statistics document.
func (c *Collector) Sync(ctx context.Context, fromYear int) (*SyncResult, error) {
	now := c.Now().UTC()
	if fromYear > now.Year() {
		return nil, fmt.Errorf("from year %d is in the future", fromYear)
	}
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -warmupDays)

	closes, err := c.Fetcher.FetchDailyCloses(ctx, c.Symbol, start, now)
	if err != nil {
		return nil, fmt.Errorf("fetch closes: %w", err)
	}
	series := model.NewPriceSeries(closes)
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s returned no closes for %s", c.Fetcher.Name(), c.Symbol)
	}
	entries := calculator.AHR999Entries(series, calculator.AHR999Window)

	res := &SyncResult{}
	for year := fromYear; year <= now.Year(); year++ {
		dates := series.DatesInYear(year)
		if len(dates) == 0 {
			continue
		}
		key := model.YearKey(year)
		prices := make(map[string]float64, len(dates))
		indices := make(map[string]model.AHR999Entry)
		for _, d := range dates {
			prices[d], _ = series.Price(d)
			if e, ok := entries[d]; ok {
				indices[d] = e
			}
		}

		if err := c.put(ctx, model.CollectionPrices, key, model.PriceDocument{
			Year: key, Prices: prices, LastUpdated: now,
		}); err != nil {
			return nil, err
		}
		if len(indices) > 0 {
			if err := c.put(ctx, model.CollectionAHR999, key, model.AHR999Document{
				Year: key, DailyIndices: indices, LastUpdated: now,
			}); err != nil {
				return nil, err
			}
		}
		res.Years = append(res.Years, year)
		res.Prices += len(prices)
		res.IndexPoints += len(indices)
	}

	if err := c.put(ctx, model.CollectionStats, model.StatsDocumentID, c.mergeStats(ctx, series, now)); err != nil {
		return nil, err
	}
	log.Info().Str("source", c.Fetcher.Name()).Ints("years", res.Years).
		Int("prices", res.Prices).Int("ahr999", res.IndexPoints).Msg("sync complete")
	return res, nil
}

// mergeStats overlays the computed price statistics on the existing stats
// document so that fields from other producers survive a sync.
func (c *Collector) mergeStats(ctx context.Context, series *model.PriceSeries, now time.Time) model.StatsDocument {
	doc := model.StatsDocument{}
	if r, ok := c.Writer.(store.Store); ok {
		existing, err := r.StatsDocument(ctx)
		switch {
		case err == nil:
			doc = existing
		case !errors.Is(err, store.ErrNotFound):
			log.Warn().Err(err).Msg("read existing stats, rewriting from scratch")
		}
	}
	for k, v := range calculator.MarketStats(series, now) {
		doc[k] = v
	}
	return doc
}

func (c *Collector) put(ctx context.Context, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if err := c.Writer.Put(ctx, collection, id, body); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return nil
}
