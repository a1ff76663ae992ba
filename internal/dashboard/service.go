package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"CoinLens/internal/calculator"
	"CoinLens/internal/model"
	"CoinLens/internal/store"
)

// Service fetches documents from the store and turns them into
// render-ready records. Absent documents become empty input; any other
// store failure is returned as the single error for that view.
type Service struct {
	Store store.Store
	Now   func() time.Time
}

// NewService creates a Service over s.
func NewService(s store.Store) *Service {
	return &Service{Store: s, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// prices loads one year of prices; a missing document is an empty series.
func (s *Service) prices(ctx context.Context, year int) (*model.PriceSeries, error) {
	doc, err := s.Store.PriceDocument(ctx, year)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Int("year", year).Msg("no price document")
		return model.NewPriceSeries(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prices %d: %w", year, err)
	}
	return doc.Series(), nil
}

func (s *Service) indexPoints(ctx context.Context, year int) ([]model.DailyIndexPoint, error) {
	doc, err := s.Store.AHR999Document(ctx, year)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Int("year", year).Msg("no ahr999 document")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ahr999 %d: %w", year, err)
	}
	return doc.Points(), nil
}

// Returns computes monthly, quarterly and yearly returns for one year.
func (s *Service) Returns(ctx context.Context, year int) (*model.YearReturns, error) {
	series, err := s.prices(ctx, year)
	if err != nil {
		return nil, err
	}
	rows := calculator.ReturnsTable(series, []int{year})
	return &rows[0], nil
}

// ReturnsHistory is the multi-year returns table with per-label averages.
type ReturnsHistory struct {
	Rows     []model.YearReturns   `json:"rows"`
	Averages []model.PeriodAverage `json:"averages"`
}

// History computes the returns table for years from..to inclusive.
func (s *Service) History(ctx context.Context, from, to int) (*ReturnsHistory, error) {
	if from > to {
		return nil, fmt.Errorf("invalid year range %d..%d", from, to)
	}
	series := model.NewPriceSeries(nil)
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		ys, err := s.prices(ctx, y)
		if err != nil {
			return nil, err
		}
		series = series.Merge(ys)
		years = append(years, y)
	}
	rows := calculator.ReturnsTable(series, years)
	return &ReturnsHistory{Rows: rows, Averages: calculator.TableAverages(rows)}, nil
}

// Calendar builds a month grid. January also loads the previous year so
// that day 1 can be compared with December 31.
func (s *Service) Calendar(ctx context.Context, year int, month time.Month) (*model.CalendarMonth, error) {
	series, err := s.prices(ctx, year)
	if err != nil {
		return nil, err
	}
	if month == time.January {
		prev, err := s.prices(ctx, year-1)
		if err != nil {
			return nil, err
		}
		series = prev.Merge(series)
	}
	cells, err := calculator.CalendarMonth(series, year, month)
	if err != nil {
		return nil, err
	}
	return &model.CalendarMonth{Year: year, Month: month, Cells: cells}, nil
}

// Model generates the log-growth series for year, joined with actual prices.
func (s *Service) Model(ctx context.Context, year int) ([]model.ModelPoint, error) {
	series, err := s.prices(ctx, year)
	if err != nil {
		return nil, err
	}
	return calculator.ModelSeries(series, year), nil
}

// AHR999 classifies the index for one year, or for every stored year when year is 0.
func (s *Service) AHR999(ctx context.Context, year int) (*model.AHR999Summary, error) {
	years := []int{year}
	rng := calculator.AllDates
	if year == 0 {
		var err error
		years, err = s.Store.Years(ctx, model.CollectionAHR999)
		if err != nil {
			return nil, fmt.Errorf("list ahr999 years: %w", err)
		}
	} else {
		rng = calculator.YearRange(year)
	}

	var all []model.DailyIndexPoint
	for _, y := range years {
		pts, err := s.indexPoints(ctx, y)
		if err != nil {
			return nil, err
		}
		all = append(all, pts...)
	}

	classified := calculator.ClassifySeries(all)
	return &model.AHR999Summary{
		From:   rng.From,
		To:     rng.To,
		Counts: calculator.SummarizeZones(all, rng),
		Points: classified,
		Latest: calculator.LatestPoint(classified),
	}, nil
}

// NextHalving returns the estimated time of the next halving, if published.
func (s *Service) NextHalving(ctx context.Context) (*time.Time, error) {
	doc, err := s.Store.HalvingDocument(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load halving document: %w", err)
	}
	if doc.EstimatedHalvingTime.IsZero() {
		return nil, nil
	}
	t := doc.EstimatedHalvingTime
	return &t, nil
}

// Halving builds the cycle comparison against the supplied predictions.
func (s *Service) Halving(ctx context.Context, predictions []model.HalvingCycleRecord) (*model.HalvingReport, error) {
	hist := calculator.HistoricalCycles()
	report := &model.HalvingReport{
		Historical:  hist,
		Averages:    calculator.CycleAverages(hist),
		Predictions: calculator.Compare(predictions, hist),
	}
	for _, c := range report.Predictions {
		if !c.Valid {
			log.Warn().Str("source", c.Prediction.Source).Str("problem", c.Problem).Msg("inconsistent halving prediction")
		}
	}
	if p, err := calculator.CycleProgress(calculator.CurrentHalvingDate, s.now()); err == nil {
		report.Progress = &p
	}

	next, err := s.NextHalving(ctx)
	if err != nil {
		return nil, err
	}
	report.NextHalving = next
	return report, nil
}

// Stats passes the aggregate statistics document through unchanged.
func (s *Service) Stats(ctx context.Context) (model.StatsDocument, error) {
	doc, err := s.Store.StatsDocument(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return model.StatsDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return doc, nil
}

// Snapshot assembles the headline numbers for the current year. Early in
// January the latest observation may still be in last year's document.
func (s *Service) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	now := s.now()
	year := now.Year()

	series, err := s.prices(ctx, year)
	if err != nil {
		return nil, err
	}
	snap := &model.Snapshot{TakenAt: now}
	snap.YTDReturnPct = calculator.YearlyReturn(series, year).ReturnPct

	if series.Len() == 0 {
		prev, err := s.prices(ctx, year-1)
		if err != nil {
			return nil, err
		}
		series = prev
	}

	if date, price, ok := series.Latest(); ok {
		snap.LatestDate = date
		snap.LatestPrice = price
		if t, err := time.Parse(model.DateLayout, date); err == nil {
			days := calculator.DaysSinceEpoch(t)
			snap.ModelPrice = calculator.ModelPrice(days)
			if r, ok := calculator.ValuationRatio(price, days); ok {
				snap.ValuationRatio = &r
			}
		}
	}

	pts, err := s.indexPoints(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		if pts, err = s.indexPoints(ctx, year-1); err != nil {
			return nil, err
		}
	}
	snap.AHR999 = calculator.LatestPoint(calculator.ClassifySeries(pts))
	return snap, nil
}
