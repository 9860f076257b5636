package models

import "time"

// TrialStats summarizes a program's trials over a rolling window.
type TrialStats struct {
	ProgramID       string `json:"program_id"`
	WindowDays      int    `json:"window_days"`
	Total           int    `json:"total"`
	Correct         int    `json:"correct"`
	Accuracy        int    `json:"accuracy"`         // rounded 0-100
	IndependentRate int    `json:"independent_rate"` // rounded 0-100
}

// BehaviorStats summarizes a behavior's recorded occurrences over a window.
type BehaviorStats struct {
	BehaviorID   string  `json:"behavior_id"`
	WindowDays   int     `json:"window_days"`
	DaysRecorded int     `json:"days_recorded"`
	AvgPerDay    float64 `json:"avg_per_day"`
	Trend        Trend   `json:"trend"`
}

// ProgramProgress relates a program's recent accuracy to its target.
type ProgramProgress struct {
	ProgramID  string `json:"program_id"`
	Accuracy   int    `json:"accuracy"`
	IsAtTarget bool   `json:"is_at_target"`
	Trend      Trend  `json:"trend"`
}

// TimingAnalytics carries session timing aggregates, optionally scoped to a
// single program. HasData is false when no bucket met its sample floor.
type TimingAnalytics struct {
	HasData                     bool  `json:"has_data"`
	BestPerformanceHour         *int  `json:"best_performance_hour,omitempty"`
	BestPerformanceHourAccuracy int   `json:"best_performance_hour_accuracy,omitempty"`
	PerformanceTrend            Trend `json:"performance_trend,omitempty"`
	DurationTrend               Trend `json:"duration_trend,omitempty"`
	SuggestedFatigueBreakAt     *int  `json:"suggested_fatigue_break_at,omitempty"`
}

// ProgramTiming is one row of the per-program timing comparison, ordered by
// average trial duration descending.
type ProgramTiming struct {
	ProgramID      string  `json:"program_id"`
	ProgramName    string  `json:"program_name"`
	Category       string  `json:"category"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
	MinDurationSec float64 `json:"min_duration_sec"`
	TotalTrials    int     `json:"total_trials"`
}

// ProgramReport is the per-program section of a compiled report.
type ProgramReport struct {
	ProgramID      string `json:"program_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Trials         int    `json:"trials"`
	Accuracy       int    `json:"accuracy"`
	TargetAccuracy int    `json:"target_accuracy"`
	MetTarget      bool   `json:"met_target"`
}

// BehaviorReport is the per-behavior section of a compiled report.
type BehaviorReport struct {
	BehaviorID  string       `json:"behavior_id"`
	Name        string       `json:"name"`
	Type        BehaviorType `json:"type"`
	Occurrences int          `json:"occurrences"`
	TotalCount  int          `json:"total_count"`
	Trend       Trend        `json:"trend"`
}

// Report is a date-ranged progress summary for a clinician. It is built
// fresh on every request and never persisted.
type Report struct {
	PatientID         string           `json:"patient_id"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           time.Time        `json:"end_date"`
	TotalTrials       int              `json:"total_trials"`
	OverallAccuracy   int              `json:"overall_accuracy"`
	TotalSessions     int              `json:"total_sessions"`
	CompletedSessions int              `json:"completed_sessions"`
	Programs          []ProgramReport  `json:"programs"`
	Behaviors         []BehaviorReport `json:"behaviors"`
	TopInsights       []Insight        `json:"top_insights"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
