package models

import "time"

// InsightType represents the tone of an insight.
type InsightType string

const (
	InsightSuccess     InsightType = "success"
	InsightWarning     InsightType = "warning"
	InsightInfo        InsightType = "info"
	InsightSuggestion  InsightType = "suggestion"
	InsightCelebration InsightType = "celebration"
)

// Insight priorities. Lower is more important.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// InsightCategory identifies which analyzer rule produced an insight.
// Insight IDs are derived from the category plus the related entity, so a
// rule firing on the same entity across runs yields the same ID.
type InsightCategory string

const (
	CategoryProgramMastery    InsightCategory = "program_mastery"
	CategoryProgramDifficult  InsightCategory = "program_difficulty"
	CategoryBehaviorTrend     InsightCategory = "behavior_trend"
	CategorySleepCorrelation  InsightCategory = "sleep_correlation"
	CategoryMoodCorrelation   InsightCategory = "mood_correlation"
	CategoryHealthCorrelation InsightCategory = "health_correlation"
	CategoryBestHour          InsightCategory = "best_hour"
	CategoryPeakHour          InsightCategory = "peak_hour"
	CategoryBestWeekday       InsightCategory = "best_weekday"
	CategoryPerformanceTrend  InsightCategory = "performance_trend"
	CategoryDurationTrend     InsightCategory = "duration_trend"
	CategoryFatigueBreak      InsightCategory = "fatigue_break"
	CategorySlowestProgram    InsightCategory = "slowest_program"
	CategoryFastestProgram    InsightCategory = "fastest_program"
	CategorySessionFrequency  InsightCategory = "session_frequency"
	CategoryNeglectedProgram  InsightCategory = "neglected_program"
	CategoryReinforcerVariety InsightCategory = "reinforcer_variety"
	CategoryTrialMilestone    InsightCategory = "trial_milestone"
	CategorySessionMilestone  InsightCategory = "session_milestone"
	CategoryStreak            InsightCategory = "streak"
)

// Trend is a coarse direction label derived from comparing two time
// windows of a metric. Accuracy-like series use increasing/stable/
// decreasing, duration-like series use faster/stable/slower, and the
// session-performance series uses improving/stable/declining.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendFaster     Trend = "faster"
	TrendSlower     Trend = "slower"
	TrendImproving  Trend = "improving"
	TrendDeclining  Trend = "declining"
)

// Insight is a generated, human-readable observation.
type Insight struct {
	ID                string          `json:"id"`
	Type              InsightType     `json:"type"`
	Priority          int             `json:"priority"` // 1=high, 2=medium, 3=low
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          InsightCategory `json:"category"`
	RelatedProgramID  *string         `json:"related_program_id,omitempty"`
	RelatedBehaviorID *string         `json:"related_behavior_id,omitempty"`
	Metrics           *InsightMetrics `json:"metrics,omitempty"`
	Suggestion        string          `json:"suggestion,omitempty"`
	Timestamp         time.Time       `json:"timestamp"`
}

// InsightMetrics carries the structured payload for an insight. Exactly one
// field is set, selected by the insight's category.
type InsightMetrics struct {
	Accuracy    *AccuracyMetrics    `json:"accuracy,omitempty"`
	Correlation *CorrelationMetrics `json:"correlation,omitempty"`
	Temporal    *TemporalMetrics    `json:"temporal,omitempty"`
	Fatigue     *FatigueMetrics     `json:"fatigue,omitempty"`
	Timing      *TimingMetrics      `json:"timing,omitempty"`
	Frequency   *FrequencyMetrics   `json:"frequency,omitempty"`
	Neglect     *NeglectMetrics     `json:"neglect,omitempty"`
	Reinforcer  *ReinforcerMetrics  `json:"reinforcer,omitempty"`
	Milestone   *MilestoneMetrics   `json:"milestone,omitempty"`
	Streak      *StreakMetrics      `json:"streak,omitempty"`
	Behavior    *BehaviorMetrics    `json:"behavior,omitempty"`
}

// AccuracyMetrics backs program mastery/difficulty insights.
type AccuracyMetrics struct {
	Accuracy       int `json:"accuracy"`
	TargetAccuracy int `json:"target_accuracy"`
	TotalTrials    int `json:"total_trials"`
}

// CorrelationMetrics backs check-in attribute correlation insights.
type CorrelationMetrics struct {
	Attribute    string `json:"attribute"` // "sleep", "mood", "health"
	GoodAccuracy int    `json:"good_accuracy"`
	PoorAccuracy int    `json:"poor_accuracy"`
	Diff         int    `json:"diff"` // percentage points
	GoodDays     int    `json:"good_days"`
	PoorDays     int    `json:"poor_days"`
}

// TemporalMetrics backs best-hour and best-weekday insights.
type TemporalMetrics struct {
	Bucket        int    `json:"bucket"` // hour 0-23 or weekday 0-6
	BucketLabel   string `json:"bucket_label"`
	BestAccuracy  int    `json:"best_accuracy"`
	WorstAccuracy int    `json:"worst_accuracy,omitempty"`
	Gap           int    `json:"gap,omitempty"` // percentage points
}

// FatigueMetrics backs the fatigue break suggestion.
type FatigueMetrics struct {
	BreakAfterTrials int `json:"break_after_trials"`
	EarlyAccuracy    int `json:"early_accuracy"`
	LateAccuracy     int `json:"late_accuracy"`
}

// TimingMetrics backs slowest/fastest program insights.
type TimingMetrics struct {
	AvgDurationSec float64 `json:"avg_duration_sec"`
	TotalTrials    int     `json:"total_trials"`
}

// FrequencyMetrics backs the session-frequency suggestion.
type FrequencyMetrics struct {
	SessionsPerWeek   float64 `json:"sessions_per_week"`
	CompletedSessions int     `json:"completed_sessions"`
	WindowDays        int     `json:"window_days"`
}

// NeglectMetrics backs neglected-program suggestions.
type NeglectMetrics struct {
	DaysSinceLastTrial int `json:"days_since_last_trial"`
}

// ReinforcerMetrics backs the reinforcer-diversity suggestion.
type ReinforcerMetrics struct {
	DistinctReinforcers int `json:"distinct_reinforcers"`
	TrialCount          int `json:"trial_count"`
}

// MilestoneMetrics backs cumulative milestone celebrations.
type MilestoneMetrics struct {
	Milestone int `json:"milestone"`
	Total     int `json:"total"`
}

// StreakMetrics backs the consecutive-day streak celebration.
type StreakMetrics struct {
	ConsecutiveDays int `json:"consecutive_days"`
}

// BehaviorMetrics backs behavior trend insights.
type BehaviorMetrics struct {
	AvgPerDay    float64 `json:"avg_per_day"`
	DaysRecorded int     `json:"days_recorded"`
}

// RecommendationKind distinguishes program picks from general tips.
type RecommendationKind string

const (
	RecommendationProgram RecommendationKind = "program"
	RecommendationTip     RecommendationKind = "tip"
)

// Recommendation is one entry in the prioritized next-session list.
type Recommendation struct {
	Kind            RecommendationKind `json:"kind"`
	ProgramID       string             `json:"program_id,omitempty"`
	Name            string             `json:"name,omitempty"`
	Category        string             `json:"category,omitempty"`
	Reason          string             `json:"reason"`
	SuggestedTrials int                `json:"suggested_trials,omitempty"`
	CurrentAccuracy *int               `json:"current_accuracy,omitempty"`
	PriorityScore   int                `json:"priority_score,omitempty"`
}

// InsightsResponse is the API payload for a full insight run.
type InsightsResponse struct {
	Insights   []Insight `json:"insights"`
	Total      int       `json:"total"`
	ComputedAt time.Time `json:"computed_at"`
}
