package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"CoinLens/internal/model"
)

// DrawdownTolerance is the relative tolerance for stored drawdowns.
const DrawdownTolerance = 1e-6

// historicalCycles are the completed halving cycles. Drawdowns are stored
// to full precision so they round-trip against ATH and trough prices.
var historicalCycles = []model.HalvingCycleRecord{
	{
		Source:           "historical",
		HalvingDate:      "2012-11-28",
		PriceAtHalving:   12.35,
		AthDate:          "2013-12-04",
		AthPrice:         1151.17,
		DaysHalvingToAth: 371,
		TroughDate:       "2015-01-14",
		TroughPrice:      152.40,
		DrawdownPct:      86.76129503027356,
		DaysAthToTrough:  406,
	},
	{
		Source:           "historical",
		HalvingDate:      "2016-07-09",
		PriceAtHalving:   650.63,
		AthDate:          "2017-12-17",
		AthPrice:         19497.40,
		DaysHalvingToAth: 526,
		TroughDate:       "2018-12-15",
		TroughPrice:      3122.28,
		DrawdownPct:      83.98617251530973,
		DaysAthToTrough:  363,
	},
	{
		Source:           "historical",
		HalvingDate:      "2020-05-11",
		PriceAtHalving:   8601.80,
		AthDate:          "2021-11-10",
		AthPrice:         68789.63,
		DaysHalvingToAth: 548,
		TroughDate:       "2022-11-21",
		TroughPrice:      15476.00,
		DrawdownPct:      77.5024229669501,
		DaysAthToTrough:  376,
	},
}

// CurrentHalvingDate is the halving that opened the current cycle.
const CurrentHalvingDate = "2024-04-20"

// HistoricalCycles returns a copy of the completed cycles.
func HistoricalCycles() []model.HalvingCycleRecord {
	out := make([]model.HalvingCycleRecord, len(historicalCycles))
	copy(out, historicalCycles)
	return out
}

// Drawdown returns (ath-trough)/ath*100.
func Drawdown(ath, trough float64) (float64, bool) {
	if !(ath > 0) {
		return 0, false
	}
	return (ath - trough) / ath * 100, true
}

// DaysBetween returns whole days from a to b (both YYYY-MM-DD).
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(model.DateLayout, a)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", a, err)
	}
	tb, err := time.Parse(model.DateLayout, b)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", b, err)
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Validate checks that a record is internally consistent: dates in order,
// day counts matching the dates, drawdown matching the prices.
func Validate(r model.HalvingCycleRecord) error {
	toAth, err := DaysBetween(r.HalvingDate, r.AthDate)
	if err != nil {
		return err
	}
	toTrough, err := DaysBetween(r.AthDate, r.TroughDate)
	if err != nil {
		return err
	}
	if toAth < 0 || toTrough < 0 {
		return errors.New("dates out of order")
	}
	if toAth != r.DaysHalvingToAth {
		return fmt.Errorf("days_halving_to_ath %d, dates give %d", r.DaysHalvingToAth, toAth)
	}
	if toTrough != r.DaysAthToTrough {
		return fmt.Errorf("days_ath_to_trough %d, dates give %d", r.DaysAthToTrough, toTrough)
	}
	dd, ok := Drawdown(r.AthPrice, r.TroughPrice)
	if !ok {
		return errors.New("ath_price must be positive")
	}
	if !withinRelative(r.DrawdownPct, dd, DrawdownTolerance) {
		return fmt.Errorf("drawdown_pct %.6f, prices give %.6f", r.DrawdownPct, dd)
	}
	return nil
}

func withinRelative(got, want, tol float64) bool {
	if want == 0 {
		return math.Abs(got) <= tol
	}
	return math.Abs(got-want)/math.Abs(want) <= tol
}

// CycleAverages computes mean metrics across records.
func CycleAverages(records []model.HalvingCycleRecord) model.CycleAverages {
	avg := model.CycleAverages{Cycles: len(records)}
	if len(records) == 0 {
		return avg
	}
	for _, r := range records {
		avg.DaysHalvingToAth += float64(r.DaysHalvingToAth)
		avg.DrawdownPct += r.DrawdownPct
		avg.DaysAthToTrough += float64(r.DaysAthToTrough)
	}
	n := float64(len(records))
	avg.DaysHalvingToAth /= n
	avg.DrawdownPct /= n
	avg.DaysAthToTrough /= n
	return avg
}

// Compare sets every prediction against the historical averages. Invalid
// predictions are still reported, flagged with the validation problem.
func Compare(predictions, historical []model.HalvingCycleRecord) []model.PredictionComparison {
	avg := CycleAverages(historical)
	out := make([]model.PredictionComparison, 0, len(predictions))
	for _, p := range predictions {
		c := model.PredictionComparison{
			Prediction:           p,
			Valid:                true,
			DaysToAthDelta:       float64(p.DaysHalvingToAth) - avg.DaysHalvingToAth,
			DrawdownDelta:        p.DrawdownPct - avg.DrawdownPct,
			DaysAthToTroughDelta: float64(p.DaysAthToTrough) - avg.DaysAthToTrough,
		}
		if err := Validate(p); err != nil {
			c.Valid = false
			c.Problem = err.Error()
		}
		if p.PriceAtHalving > 0 {
			c.AthMultipleOfHalving = p.AthPrice / p.PriceAtHalving
		}
		out = append(out, c)
	}
	return out
}

// CycleProgress reports how far now is into the cycle opened at halvingDate.
func CycleProgress(halvingDate string, now time.Time) (model.CycleProgress, error) {
	h, err := time.Parse(model.DateLayout, halvingDate)
	if err != nil {
		return model.CycleProgress{}, fmt.Errorf("parse halving date: %w", err)
	}
	days := int(now.UTC().Sub(h) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return model.CycleProgress{HalvingDate: halvingDate, DaysSinceHalving: days}, nil
}
