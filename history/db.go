// Package history provides a SQLite log of runs and their settled days.
// It is append-only; nothing is ever read back into a simulation.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/egobh/config"
	"github.com/pthm-cable/egobh/telemetry"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Run is a row of the runs table.
type Run struct {
	ID         string `db:"id"`
	StartedAt  string `db:"started_at"`
	Seed       int64  `db:"seed"`
	Preset     string `db:"preset"`
	ConfigYAML string `db:"config_yaml"`
}

// Day is a row of the days table.
type Day struct {
	RunID            string  `db:"run_id"`
	Day              int     `db:"day"`
	PopulationBefore int     `db:"population_before"`
	PopulationAfter  int     `db:"population_after"`
	Deaths           int     `db:"deaths"`
	Births           int     `db:"births"`
	CowsClaimed      int     `db:"cows_claimed"`
	AvgDistance      float64 `db:"avg_distance"`
	CoveragePct      float64 `db:"coverage_pct"`
	EgoMean          float64 `db:"ego_mean"`
	EgoStd           float64 `db:"ego_std"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		preset TEXT NOT NULL,
		config_yaml TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS days (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		population_before INTEGER NOT NULL,
		population_after INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		births INTEGER NOT NULL,
		cows_claimed INTEGER NOT NULL,
		avg_distance REAL NOT NULL,
		coverage_pct REAL NOT NULL,
		ego_mean REAL NOT NULL,
		ego_std REAL NOT NULL,
		PRIMARY KEY (run_id, day)
	);

	CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, day, outcome)
	);

	CREATE INDEX IF NOT EXISTS idx_days_run ON days(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun records a new run and returns its id.
func (db *DB) StartRun(cfg *config.Config, seed int64, preset string) (string, error) {
	data, err := cfg.YAML()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = db.conn.Exec(
		"INSERT INTO runs (id, started_at, seed, preset, config_yaml) VALUES (?, ?, ?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), seed, preset, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordDay writes a settled day and its outcome buckets in one transaction.
// Rows are never replaced: recording a day twice for one run is an error.
func (db *DB) RecordDay(runID string, s telemetry.DayStats) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO days
		(run_id, day, population_before, population_after, deaths, births,
		 cows_claimed, avg_distance, coverage_pct, ego_mean, ego_std)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.Day, s.PopulationBefore, s.PopulationAfter, s.Deaths, s.Births,
		s.CowsClaimed, s.AvgDistance, s.CoveragePct, s.EgoMean, s.EgoStd,
	)
	if err != nil {
		return fmt.Errorf("insert day: %w", err)
	}

	stmt, err := tx.Preparex("INSERT INTO outcomes (run_id, day, outcome, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	o := s.Outcomes
	counts := []struct {
		name  string
		count int
	}{
		{"dead", o.Dead},
		{"survived", o.Survived},
		{"r1", o.R1},
		{"r2", o.R2},
		{"r3", o.R3},
		{"r4p", o.R4Plus},
	}
	for _, c := range counts {
		if _, err := stmt.Exec(runID, s.Day, c.name, c.count); err != nil {
			return fmt.Errorf("insert outcome %s: %w", c.name, err)
		}
	}

	return tx.Commit()
}

// Runs returns all recorded runs, newest first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, started_at, seed, preset, config_yaml FROM runs ORDER BY started_at DESC",
	)
	return runs, err
}

// Days returns the recorded days of a run in order.
func (db *DB) Days(runID string) ([]Day, error) {
	var days []Day
	err := db.conn.Select(&days,
		`SELECT run_id, day, population_before, population_after, deaths, births,
		        cows_claimed, avg_distance, coverage_pct, ego_mean, ego_std
		 FROM days WHERE run_id = ? ORDER BY day`,
		runID,
	)
	return days, err
}

// OutcomeCount returns the recorded count of an outcome on a day.
func (db *DB) OutcomeCount(runID string, day int, outcome string) (int, error) {
	var n int
	err := db.conn.Get(&n,
		"SELECT count FROM outcomes WHERE run_id = ? AND day = ? AND outcome = ?",
		runID, day, outcome,
	)
	return n, err
}
