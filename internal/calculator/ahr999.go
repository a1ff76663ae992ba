package calculator

import (
	"math"
	"sort"

	"CoinLens/internal/model"
)

// PhaseThresholds maps index values to phases. Each phase covers
// [previous UpperBound, UpperBound); the last phase is unbounded.
var PhaseThresholds = []struct {
	UpperBound float64
	Phase      model.MarketPhase
}{
	{0.45, model.PhaseBottomFishing},
	{1.2, model.PhaseDCAZone},
	{4, model.PhaseBullMarket},
}

// ClassifyPhase returns the first phase whose upper bound exceeds v.
func ClassifyPhase(v float64) model.MarketPhase {
	for _, t := range PhaseThresholds {
		if v < t.UpperBound {
			return t.Phase
		}
	}
	return model.PhaseExtremeOvervaluation
}

// TrendBetween compares cur with its predecessor. A nil prev yields TrendNone.
func TrendBetween(prev *model.DailyIndexPoint, cur model.DailyIndexPoint) model.Trend {
	switch {
	case prev == nil:
		return model.TrendNone
	case cur.IndexValue > prev.IndexValue:
		return model.TrendUp
	case cur.IndexValue < prev.IndexValue:
		return model.TrendDown
	default:
		return model.TrendFlat
	}
}

// validPoint enforces the index > 0 invariant.
func validPoint(p model.DailyIndexPoint) bool {
	return p.IndexValue > 0 && !math.IsInf(p.IndexValue, 0)
}

// ClassifySeries sorts points by date and attaches phase and trend.
// Points violating the index > 0 invariant are dropped.
func ClassifySeries(points []model.DailyIndexPoint) []model.ClassifiedPoint {
	sorted := make([]model.DailyIndexPoint, 0, len(points))
	for _, p := range points {
		if validPoint(p) {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	out := make([]model.ClassifiedPoint, len(sorted))
	var prev *model.DailyIndexPoint
	for i, p := range sorted {
		out[i] = model.ClassifiedPoint{
			DailyIndexPoint: p,
			Phase:           ClassifyPhase(p.IndexValue),
			Trend:           TrendBetween(prev, p),
		}
		prev = &sorted[i]
	}
	return out
}

// DateRange is an inclusive range of ISO dates. Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

// AllDates places no bound on the range.
var AllDates = DateRange{}

// YearRange covers one calendar year.
func YearRange(year int) DateRange {
	y := model.YearKey(year)
	return DateRange{From: y + "-01-01", To: y + "-12-31"}
}

// Contains reports whether date lies in the range.
func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// SummarizeZones counts the days in each phase within r.
// Every phase is present in the result, possibly with zero days.
func SummarizeZones(points []model.DailyIndexPoint, r DateRange) model.ZoneCounts {
	counts := make(model.ZoneCounts, len(model.Phases))
	for _, ph := range model.Phases {
		counts[ph] = 0
	}
	for _, p := range points {
		if !validPoint(p) || !r.Contains(p.Date) {
			continue
		}
		counts[ClassifyPhase(p.IndexValue)]++
	}
	return counts
}

// LatestPoint returns the most recent classified point, or nil.
func LatestPoint(points []model.ClassifiedPoint) *model.ClassifiedPoint {
	if len(points) == 0 {
		return nil
	}
	latest := points[len(points)-1]
	return &latest
}

// PhaseChanged reports whether cur moved into a different phase than prev.
func PhaseChanged(prev, cur *model.ClassifiedPoint) bool {
	if prev == nil || cur == nil {
		return false
	}
	return prev.Phase != cur.Phase
}
