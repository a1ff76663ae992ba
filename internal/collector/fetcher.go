package collector

import (
	"context"
	"time"
)

// Fetcher defines the interface for fetching daily closes keyed by YYYY-MM-DD.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) (map[string]float64, error)
	Name() string
}
