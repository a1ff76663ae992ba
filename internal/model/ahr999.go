package model

// DailyIndexPoint is one precomputed AHR999 observation.
type DailyIndexPoint struct {
	Date       string  `json:"date"`
	IndexValue float64 `json:"index_value"`
	SpotPrice  float64 `json:"spot_price"`
	Avg200     float64 `json:"avg_200"`
}

// MarketPhase is the valuation zone an AHR999 value falls in.
type MarketPhase int

const (
	PhaseBottomFishing MarketPhase = iota + 1
	PhaseDCAZone
	PhaseBullMarket
	PhaseExtremeOvervaluation
)

// Phases lists every phase in ascending valuation order.
var Phases = []MarketPhase{PhaseBottomFishing, PhaseDCAZone, PhaseBullMarket, PhaseExtremeOvervaluation}

func (p MarketPhase) String() string {
	switch p {
	case PhaseBottomFishing:
		return "BottomFishing"
	case PhaseDCAZone:
		return "DCAZone"
	case PhaseBullMarket:
		return "BullMarket"
	case PhaseExtremeOvervaluation:
		return "ExtremeOvervaluation"
	default:
		return "Unknown"
	}
}

func (p MarketPhase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Trend compares a point with its chronological predecessor.
type Trend int

const (
	TrendNone Trend = iota // no previous point
	TrendUp
	TrendDown
	TrendFlat
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	case TrendFlat:
		return "flat"
	default:
		return "none"
	}
}

func (t Trend) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ClassifiedPoint is a DailyIndexPoint with its zone and trend attached.
type ClassifiedPoint struct {
	DailyIndexPoint
	Phase MarketPhase `json:"phase"`
	Trend Trend       `json:"trend"`
}

// ZoneCounts holds the number of days spent in each phase.
type ZoneCounts map[MarketPhase]int

// Total returns the number of counted days.
func (z ZoneCounts) Total() int {
	n := 0
	for _, c := range z {
		n += c
	}
	return n
}

// AHR999Summary is the dashboard view of the index over a range.
type AHR999Summary struct {
	From   string            `json:"from,omitempty"`
	To     string            `json:"to,omitempty"`
	Counts ZoneCounts        `json:"counts"`
	Points []ClassifiedPoint `json:"points"`
	Latest *ClassifiedPoint  `json:"latest,omitempty"`
}
