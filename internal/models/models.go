package models

import "time"

// TrialResult classifies the outcome of a single trial.
type TrialResult string

const (
	TrialResultCorrect    TrialResult = "correct"
	TrialResultIncorrect  TrialResult = "incorrect"
	TrialResultNoResponse TrialResult = "no_response"
)

// PromptLevel is the degree of assistance given during a trial.
type PromptLevel string

const (
	PromptIndependent  PromptLevel = "I"
	PromptVerbal       PromptLevel = "V"
	PromptGestural     PromptLevel = "G"
	PromptFullPhysical PromptLevel = "FP"
	PromptFullTactile  PromptLevel = "FT"
)

// SessionStatus represents the lifecycle state of a therapy session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// ProgramStatus marks whether a teaching program is currently worked on.
type ProgramStatus string

const (
	ProgramActive   ProgramStatus = "active"
	ProgramInactive ProgramStatus = "inactive"
)

// BehaviorType classifies the therapeutic goal for a tracked behavior.
type BehaviorType string

const (
	BehaviorIncrease BehaviorType = "increase"
	BehaviorDecrease BehaviorType = "decrease"
	BehaviorMonitor  BehaviorType = "monitor"
)

// Severity indicates how concerning a tracked behavior is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Mood is the self-reported mood on a daily check-in.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodNeutral Mood = "neutral"
	MoodTired   Mood = "tired"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
)

// IsNegative reports whether the mood is on the negative end of the scale.
func (m Mood) IsNegative() bool {
	return m == MoodTired || m == MoodSad || m == MoodAngry
}

// IsPositive reports whether the mood is on the positive end of the scale.
func (m Mood) IsPositive() bool {
	return m == MoodHappy || m == MoodCalm
}

// HealthNormal is the check-in health value meaning "nothing unusual".
const HealthNormal = "normal"

// Trial is one discrete stimulus-response attempt within a session.
type Trial struct {
	ID          string      `json:"id"`
	SessionID   string      `json:"session_id"`
	ProgramID   string      `json:"program_id"`
	TargetID    *string     `json:"target_id,omitempty"`
	Result      TrialResult `json:"result"`
	PromptLevel PromptLevel `json:"prompt_level"`
	LatencyMs   *int        `json:"latency_ms,omitempty"`
	DurationMs  *int        `json:"duration_ms,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Reinforcer  *string     `json:"reinforcer,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Session is a single therapy session for a patient.
type Session struct {
	ID          string        `json:"id"`
	PatientID   string        `json:"patient_id"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Status      SessionStatus `json:"status"`
	DurationSec *int          `json:"duration_sec,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Program is a specific teaching objective with a target accuracy threshold.
type Program struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Category       string        `json:"category"`
	TargetAccuracy int           `json:"target_accuracy"` // 0-100
	Status         ProgramStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Behavior is a tracked target behavior.
type Behavior struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      BehaviorType `json:"type"`
	Severity  Severity     `json:"severity"`
	CreatedAt time.Time    `json:"created_at"`
}

// BehaviorRecord is one observed occurrence (or batch of occurrences)
// of a tracked behavior.
type BehaviorRecord struct {
	ID         string    `json:"id"`
	BehaviorID string    `json:"behavior_id"`
	Timestamp  time.Time `json:"timestamp"`
	Count      *int      `json:"count,omitempty"` // nil means 1
}

// Occurrences returns the record's count, defaulting to 1.
func (r BehaviorRecord) Occurrences() int {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

// DailyCheckin is a once-daily self-report, unique per patient and day.
type DailyCheckin struct {
	PatientID  string    `json:"patient_id"`
	Date       time.Time `json:"date"` // day granularity
	SleepHours float64   `json:"sleep_hours"`
	Mood       Mood      `json:"mood"`
	Health     string    `json:"health"` // "normal" or a free-form condition
}

// TimeGoal is a session time target for a program. Time goals are the only
// piece of engine-derived state that is ever persisted; everything else is
// recomputed from the raw records on each run.
type TimeGoal struct {
	ProgramID         string    `json:"program_id"`
	TargetDurationSec int       `json:"target_duration_sec"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Settings is the per-patient settings blob held by the record store.
type Settings struct {
	PatientID string              `json:"patient_id"`
	TimeGoals map[string]TimeGoal `json:"time_goals,omitempty"` // keyed by program ID
	UpdatedAt time.Time           `json:"updated_at"`
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
type SettingsPatch struct {
	TimeGoals map[string]TimeGoal `json:"time_goals,omitempty"`
}

// UpdateTimeGoalRequest sets an explicit time goal for a program.
type UpdateTimeGoalRequest struct {
	TargetDurationSec int `json:"target_duration_sec" binding:"required,min=1"`
}
