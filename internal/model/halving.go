package model

import "time"

// HalvingCycleRecord describes one halving cycle. Historical records are
// curated constants; predictions for the open cycle share the same shape
// and carry the forecasting source's name.
type HalvingCycleRecord struct {
	Source           string  `json:"source" yaml:"source"`
	HalvingDate      string  `json:"halving_date" yaml:"halving_date"`
	PriceAtHalving   float64 `json:"price_at_halving" yaml:"price_at_halving"`
	AthDate          string  `json:"ath_date" yaml:"ath_date"`
	AthPrice         float64 `json:"ath_price" yaml:"ath_price"`
	DaysHalvingToAth int     `json:"days_halving_to_ath" yaml:"days_halving_to_ath"`
	TroughDate       string  `json:"trough_date" yaml:"trough_date"`
	TroughPrice      float64 `json:"trough_price" yaml:"trough_price"`
	DrawdownPct      float64 `json:"drawdown_pct" yaml:"drawdown_pct"`
	DaysAthToTrough  int     `json:"days_ath_to_trough" yaml:"days_ath_to_trough"`
}

// CycleAverages are the mean metrics over a set of cycles.
type CycleAverages struct {
	Cycles           int     `json:"cycles"`
	DaysHalvingToAth float64 `json:"days_halving_to_ath"`
	DrawdownPct      float64 `json:"drawdown_pct"`
	DaysAthToTrough  float64 `json:"days_ath_to_trough"`
}

// PredictionComparison sets one forecast against the historical averages.
type PredictionComparison struct {
	Prediction           HalvingCycleRecord `json:"prediction"`
	Valid                bool               `json:"valid"`
	Problem              string             `json:"problem,omitempty"`
	DaysToAthDelta       float64            `json:"days_to_ath_delta"`
	DrawdownDelta        float64            `json:"drawdown_delta"`
	DaysAthToTroughDelta float64            `json:"days_ath_to_trough_delta"`
	AthMultipleOfHalving float64            `json:"ath_multiple_of_halving"`
}

// CycleProgress tracks the open cycle.
type CycleProgress struct {
	HalvingDate      string `json:"halving_date"`
	DaysSinceHalving int    `json:"days_since_halving"`
}

// HalvingReport is the dashboard view of halving cycles.
type HalvingReport struct {
	Historical  []HalvingCycleRecord   `json:"historical"`
	Averages    CycleAverages          `json:"averages"`
	Predictions []PredictionComparison `json:"predictions"`
	Progress    *CycleProgress         `json:"progress,omitempty"`
	NextHalving *time.Time             `json:"next_halving,omitempty"`
}

// CountdownState is Pending until the target passes, then Elapsed for good.
type CountdownState int

const (
	CountdownPending CountdownState = iota
	CountdownElapsed
)

func (s CountdownState) String() string {
	if s == CountdownElapsed {
		return "elapsed"
	}
	return "pending"
}

func (s CountdownState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Remaining is a countdown decomposed into whole units.
type Remaining struct {
	Days    int64          `json:"days"`
	Hours   int64          `json:"hours"`
	Minutes int64          `json:"minutes"`
	Seconds int64          `json:"seconds"`
	State   CountdownState `json:"state"`
}
