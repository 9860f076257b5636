package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/internal/repository"
)

// parseTime accepts the RFC3339 timestamps the app writes. A row with a
// timestamp that does not parse is treated as malformed and skipped by
// callers rather than failing the whole listing.
func parseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type programRepo struct {
	db *sql.DB
}

func (r *programRepo) List(ctx context.Context, status models.ProgramStatus) ([]models.Program, error) {
	q := `SELECT id, name, category, target_accuracy, status, created_at, updated_at FROM programs`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var p models.Program
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.TargetAccuracy, &p.Status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		p.CreatedAt, _ = parseTime(createdAt)
		p.UpdatedAt, _ = parseTime(updatedAt)
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

type trialRepo struct {
	db *sql.DB
}

func (r *trialRepo) List(ctx context.Context, filter repository.TrialFilter) ([]models.Trial, error) {
	q := `SELECT id, session_id, program_id, target_id, result, prompt_level,
		latency_ms, duration_ms, timestamp, reinforcer, created_at FROM trials WHERE 1=1`
	args := []any{}
	if filter.ProgramID != "" {
		q += ` AND program_id = ?`
		args = append(args, filter.ProgramID)
	}
	if filter.SessionID != "" {
		q += ` AND session_id = ?`
		args = append(args, filter.SessionID)
	}
	if filter.Since != nil {
		q += ` AND timestamp >= ?`
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	q += ` ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer rows.Close()

	var trials []models.Trial
	for rows.Next() {
		var t models.Trial
		var targetID, reinforcer sql.NullString
		var latencyMs, durationMs sql.NullInt64
		var ts, createdAt string
		if err := rows.Scan(&t.ID, &t.SessionID, &t.ProgramID, &targetID, &t.Result,
			&t.PromptLevel, &latencyMs, &durationMs, &ts, &reinforcer, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}

		parsed, ok := parseTime(ts)
		if !ok {
			logger.Default().Warn("skipping trial with malformed timestamp",
				logger.String("trial_id", t.ID), logger.String("timestamp", ts))
			continue
		}
		t.Timestamp = parsed
		t.CreatedAt, _ = parseTime(createdAt)

		if targetID.Valid {
			t.TargetID = &targetID.String
		}
		if reinforcer.Valid {
			t.Reinforcer = &reinforcer.String
		}
		if latencyMs.Valid {
			v := int(latencyMs.Int64)
			t.LatencyMs = &v
		}
		if durationMs.Valid {
			v := int(durationMs.Int64)
			t.DurationMs = &v
		}
		trials = append(trials, t)
	}

	return trials, rows.Err()
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]models.Session, error) {
	q := `SELECT id, patient_id, start_time, end_time, status, duration_sec, created_at FROM sessions WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Since != nil {
		q += ` AND start_time >= ?`
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	q += ` ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		var startTime, createdAt string
		var endTime sql.NullString
		var durationSec sql.NullInt64
		if err := rows.Scan(&s.ID, &s.PatientID, &startTime, &endTime, &s.Status, &durationSec, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		parsed, ok := parseTime(startTime)
		if !ok {
			logger.Default().Warn("skipping session with malformed start time",
				logger.String("session_id", s.ID), logger.String("start_time", startTime))
			continue
		}
		s.StartTime = parsed
		s.CreatedAt, _ = parseTime(createdAt)

		if endTime.Valid {
			if end, ok := parseTime(endTime.String); ok {
				s.EndTime = &end
			}
		}
		if durationSec.Valid {
			v := int(durationSec.Int64)
			s.DurationSec = &v
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

type behaviorRepo struct {
	db *sql.DB
}

func (r *behaviorRepo) List(ctx context.Context) ([]models.Behavior, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, severity, created_at FROM behaviors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list behaviors: %w", err)
	}
	defer rows.Close()

	var behaviors []models.Behavior
	for rows.Next() {
		var b models.Behavior
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.Type, &b.Severity, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan behavior: %w", err)
		}
		b.CreatedAt, _ = parseTime(createdAt)
		behaviors = append(behaviors, b)
	}

	return behaviors, rows.Err()
}

func (r *behaviorRepo) ListRecords(ctx context.Context, filter repository.BehaviorRecordFilter) ([]models.BehaviorRecord, error) {
	q := `SELECT id, behavior_id, timestamp, count FROM behavior_records WHERE 1=1`
	args := []any{}
	if filter.BehaviorID != "" {
		q += ` AND behavior_id = ?`
		args = append(args, filter.BehaviorID)
	}
	if filter.Since != nil {
		q += ` AND timestamp >= ?`
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	q += ` ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list behavior records: %w", err)
	}
	defer rows.Close()

	var records []models.BehaviorRecord
	for rows.Next() {
		var rec models.BehaviorRecord
		var ts string
		var count sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.BehaviorID, &ts, &count); err != nil {
			return nil, fmt.Errorf("failed to scan behavior record: %w", err)
		}

		parsed, ok := parseTime(ts)
		if !ok {
			logger.Default().Warn("skipping behavior record with malformed timestamp",
				logger.String("record_id", rec.ID), logger.String("timestamp", ts))
			continue
		}
		rec.Timestamp = parsed

		if count.Valid {
			v := int(count.Int64)
			rec.Count = &v
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

type checkinRepo struct {
	db        *sql.DB
	patientID string
}

func (r *checkinRepo) List(ctx context.Context, since *time.Time) ([]models.DailyCheckin, error) {
	q := `SELECT patient_id, date, sleep_hours, mood, health FROM daily_checkins WHERE patient_id = ?`
	args := []any{r.patientID}
	if since != nil {
		q += ` AND date >= ?`
		args = append(args, since.UTC().Format("2006-01-02"))
	}
	q += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily checkins: %w", err)
	}
	defer rows.Close()

	var checkins []models.DailyCheckin
	for rows.Next() {
		var c models.DailyCheckin
		var date string
		if err := rows.Scan(&c.PatientID, &date, &c.SleepHours, &c.Mood, &c.Health); err != nil {
			return nil, fmt.Errorf("failed to scan daily checkin: %w", err)
		}

		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			logger.Default().Warn("skipping checkin with malformed date",
				logger.String("date", date))
			continue
		}
		c.Date = parsed
		checkins = append(checkins, c)
	}

	return checkins, rows.Err()
}

type settingsRepo struct {
	db        *sql.DB
	patientID string
}

func (r *settingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	var goalsJSON, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT time_goals, updated_at FROM settings WHERE patient_id = ?`,
		r.patientID).Scan(&goalsJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return &models.Settings{PatientID: r.patientID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings := &models.Settings{PatientID: r.patientID}
	if err := json.Unmarshal([]byte(goalsJSON), &settings.TimeGoals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal time goals: %w", err)
	}
	settings.UpdatedAt, _ = parseTime(updatedAt)

	return settings, nil
}

func (r *settingsRepo) Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	merged := current.TimeGoals
	if merged == nil {
		merged = make(map[string]models.TimeGoal, len(patch.TimeGoals))
	}
	for programID, goal := range patch.TimeGoals {
		merged[programID] = goal
	}

	goalsJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal time goals: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (patient_id, time_goals, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(patient_id) DO UPDATE SET time_goals = excluded.time_goals, updated_at = excluded.updated_at`,
		r.patientID, string(goalsJSON), now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	current.TimeGoals = merged
	current.UpdatedAt = now
	return current, nil
}
