package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			store           TEXT,
			duration_ms     INTEGER,
			error           TEXT,
			latest_date     TEXT,
			latest_price    REAL,
			ytd_return_pct  REAL,
			model_price     REAL,
			valuation_ratio REAL,
			ahr999          REAL,
			ahr999_avg200   REAL,
			phase           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS countdown_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			name       TEXT,
			target     INTEGER,
			elapsed_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_countdown_ts ON countdown_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS phase_changes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			date        TEXT,
			from_phase  TEXT,
			to_phase    TEXT,
			index_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_phase_ts ON phase_changes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable turns an optional float into a SQL value.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (r *SQLiteRecorder) RecordRefresh(rec *RefreshRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	var errText any
	if rec.Err != nil {
		errText = rec.Err.Error()
	}

	var (
		latestDate, phase       any
		latestPrice, modelPrice any
		ytd, ratio, ahr, ahrAvg any
	)
	if snap := rec.Snapshot; snap != nil {
		latestDate = snap.LatestDate
		latestPrice = snap.LatestPrice
		modelPrice = snap.ModelPrice
		ytd = nullable(snap.YTDReturnPct)
		ratio = nullable(snap.ValuationRatio)
		if snap.AHR999 != nil {
			ahr = snap.AHR999.IndexValue
			ahrAvg = snap.AHR999.Avg200
			phase = snap.AHR999.Phase.String()
		}
	}

	_, err := r.db.Exec(`INSERT INTO refresh_snapshots
		(run_id, timestamp, store, duration_ms, error,
		 latest_date, latest_price, ytd_return_pct, model_price, valuation_ratio,
		 ahr999, ahr999_avg200, phase)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, r.now().Unix(), rec.Store, rec.Duration.Milliseconds(), errText,
		latestDate, latestPrice, ytd, modelPrice, ratio,
		ahr, ahrAvg, phase,
	)
	return err
}

func (r *SQLiteRecorder) RecordCountdown(evt *CountdownEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO countdown_events
		(timestamp, name, target, elapsed_at)
		VALUES (?,?,?,?)`,
		r.now().Unix(), evt.Name, evt.Target.Unix(), evt.ElapsedAt.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordPhaseChange(evt *PhaseChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO phase_changes
		(timestamp, date, from_phase, to_phase, index_value)
		VALUES (?,?,?,?,?)`,
		r.now().Unix(), evt.Date, evt.From.String(), evt.To.String(), evt.IndexValue,
	)
	return err
}

// RefreshCount returns the number of recorded refreshes.
func (r *SQLiteRecorder) RefreshCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM refresh_snapshots`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
