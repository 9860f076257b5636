// Package sqlitedb implements the repository interfaces on an embedded
// SQLite database, for local and self-hosted deployments where the
// hosted record store is not used.
package sqlitedb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bloomhq/bloom/backend/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS programs (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	category        TEXT NOT NULL DEFAULT '',
	target_accuracy INTEGER NOT NULL DEFAULT 80,
	status          TEXT NOT NULL DEFAULT 'active',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	patient_id   TEXT NOT NULL,
	start_time   TEXT NOT NULL,
	end_time     TEXT,
	status       TEXT NOT NULL DEFAULT 'in_progress',
	duration_sec INTEGER,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trials (
	id           TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	program_id   TEXT NOT NULL,
	target_id    TEXT,
	result       TEXT NOT NULL,
	prompt_level TEXT NOT NULL,
	latency_ms   INTEGER,
	duration_ms  INTEGER,
	timestamp    TEXT NOT NULL,
	reinforcer   TEXT,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trials_timestamp ON trials(timestamp);
CREATE INDEX IF NOT EXISTS idx_trials_program ON trials(program_id);

CREATE TABLE IF NOT EXISTS behaviors (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'monitor',
	severity   TEXT NOT NULL DEFAULT 'low',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS behavior_records (
	id          TEXT PRIMARY KEY,
	behavior_id TEXT NOT NULL,
	timestamp   TEXT NOT NULL,
	count       INTEGER
);
CREATE INDEX IF NOT EXISTS idx_behavior_records_timestamp ON behavior_records(timestamp);

CREATE TABLE IF NOT EXISTS daily_checkins (
	patient_id  TEXT NOT NULL,
	date        TEXT NOT NULL,
	sleep_hours REAL NOT NULL DEFAULT 0,
	mood        TEXT NOT NULL DEFAULT 'neutral',
	health      TEXT NOT NULL DEFAULT 'normal',
	PRIMARY KEY (patient_id, date)
);

CREATE TABLE IF NOT EXISTS settings (
	patient_id TEXT PRIMARY KEY,
	time_goals TEXT NOT NULL DEFAULT '{}',
	updated_at TEXT NOT NULL
);
`

// Open opens (creating if necessary) a SQLite database at path and
// returns a Store wired to it.
func Open(path, patientID string) (*repository.Store, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	store := &repository.Store{
		Programs:  &programRepo{db: db},
		Trials:    &trialRepo{db: db},
		Sessions:  &sessionRepo{db: db},
		Behaviors: &behaviorRepo{db: db},
		Checkins:  &checkinRepo{db: db, patientID: patientID},
		Settings:  &settingsRepo{db: db, patientID: patientID},
	}

	return store, db, nil
}
