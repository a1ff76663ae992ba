package recorder

import (
	"time"

	"CoinLens/internal/model"
)

// RefreshRecord is one scheduler refresh of the dashboard snapshot.
type RefreshRecord struct {
	RunID    string
	Snapshot *model.Snapshot
	Store    string
	Duration time.Duration
	Err      error
}

// CountdownEvent records a countdown reaching its target.
type CountdownEvent struct {
	Name      string
	Target    time.Time
	ElapsedAt time.Time
}

// PhaseChange records the latest AHR999 point moving to another zone.
type PhaseChange struct {
	Date       string
	From       model.MarketPhase
	To         model.MarketPhase
	IndexValue float64
}

// Recorder persists refresh history for later analysis.
type Recorder interface {
	RecordRefresh(rec *RefreshRecord) error
	RecordCountdown(evt *CountdownEvent) error
	RecordPhaseChange(evt *PhaseChange) error
	Close() error
}
