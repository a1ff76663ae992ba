package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinLens/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	ytd := 12.5
	snap := &model.Snapshot{
		LatestDate:   "2024-03-01",
		LatestPrice:  62000,
		YTDReturnPct: &ytd,
		ModelPrice:   48000,
		AHR999: &model.ClassifiedPoint{
			DailyIndexPoint: model.DailyIndexPoint{Date: "2024-03-01", IndexValue: 1.3, Avg200: 38000},
			Phase:           model.PhaseBullMarket,
		},
	}
	rec := &RefreshRecord{Snapshot: snap, Store: "memory", Duration: 15 * time.Millisecond}
	require.NoError(t, r.RecordRefresh(rec))
	assert.NotEmpty(t, rec.RunID, "run id is assigned")

	require.NoError(t, r.RecordRefresh(&RefreshRecord{RunID: "x", Store: "http", Err: errors.New("store down")}))

	n, err := r.RefreshCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var phase string
	require.NoError(t, r.db.QueryRow(`SELECT phase FROM refresh_snapshots WHERE run_id = ?`, rec.RunID).Scan(&phase))
	assert.Equal(t, "BullMarket", phase)

	var errText string
	require.NoError(t, r.db.QueryRow(`SELECT error FROM refresh_snapshots WHERE run_id = 'x'`).Scan(&errText))
	assert.Equal(t, "store down", errText)
}

func TestSQLiteRecorder_Events(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	target := time.Date(2028, 4, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.RecordCountdown(&CountdownEvent{Name: "halving", Target: target, ElapsedAt: target}))
	require.NoError(t, r.RecordPhaseChange(&PhaseChange{
		Date: "2024-03-01", From: model.PhaseDCAZone, To: model.PhaseBullMarket, IndexValue: 1.21,
	}))

	var name string
	var tgt int64
	require.NoError(t, r.db.QueryRow(`SELECT name, target FROM countdown_events`).Scan(&name, &tgt))
	assert.Equal(t, "halving", name)
	assert.Equal(t, target.Unix(), tgt)

	var from, to string
	require.NoError(t, r.db.QueryRow(`SELECT from_phase, to_phase FROM phase_changes`).Scan(&from, &to))
	assert.Equal(t, "DCAZone", from)
	assert.Equal(t, "BullMarket", to)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRefresh(&RefreshRecord{}))
	assert.NoError(t, r.RecordCountdown(&CountdownEvent{}))
	assert.NoError(t, r.RecordPhaseChange(&PhaseChange{}))
	assert.NoError(t, r.Close())
}
