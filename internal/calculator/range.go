package calculator

import (
	"errors"
	"math"
)

// WindowRange returns the high and low of the most recent window closes.
// Fewer than window closes is an error.
func WindowRange(closes []float64, window int) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no closes provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	if len(closes) < window {
		return 0, 0, errors.New("not enough data for window")
	}
	start := len(closes) - window
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range closes[start:] {
		high = math.Max(high, c)
		low = math.Min(low, c)
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high], clamped to 0..1.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos)), nil
}
