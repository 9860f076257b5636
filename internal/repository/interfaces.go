// Package repository defines the data-access boundary between the
// analytics engine and the record store. The engine only ever reads,
// except for the settings blob that carries per-program time goals.
package repository

import (
	"context"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// TrialFilter narrows a trial listing. Zero values mean "no constraint".
type TrialFilter struct {
	ProgramID string
	SessionID string
	Since     *time.Time
}

// SessionFilter narrows a session listing.
type SessionFilter struct {
	Status models.SessionStatus
	Since  *time.Time
}

// BehaviorRecordFilter narrows a behavior record listing.
type BehaviorRecordFilter struct {
	BehaviorID string
	Since      *time.Time
}

// ProgramRepository defines the interface for program data access
type ProgramRepository interface {
	// List returns programs, optionally filtered by status ("" = all).
	List(ctx context.Context, status models.ProgramStatus) ([]models.Program, error)
}

// TrialRepository defines the interface for trial data access
type TrialRepository interface {
	List(ctx context.Context, filter TrialFilter) ([]models.Trial, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	List(ctx context.Context, filter SessionFilter) ([]models.Session, error)
}

// BehaviorRepository defines the interface for behavior and behavior
// record data access
type BehaviorRepository interface {
	List(ctx context.Context) ([]models.Behavior, error)
	ListRecords(ctx context.Context, filter BehaviorRecordFilter) ([]models.BehaviorRecord, error)
}

// CheckinRepository defines the interface for daily check-in data access
type CheckinRepository interface {
	List(ctx context.Context, since *time.Time) ([]models.DailyCheckin, error)
}

// SettingsRepository defines the interface for the settings blob.
// Update is the engine's only write path.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error)
}

// Store bundles every repository the engine needs.
type Store struct {
	Programs  ProgramRepository
	Trials    TrialRepository
	Sessions  SessionRepository
	Behaviors BehaviorRepository
	Checkins  CheckinRepository
	Settings  SettingsRepository
}
