package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/internal/repository"
)

// Analysis windows, in days.
const (
	DefaultWindowDays = 30
	RecentWindowDays  = 14
	WeekWindowDays    = 7
	CheckinWindowDays = 90
)

// Sample floors. Rules stay silent below these rather than reporting on
// noise.
const (
	MinTrialsForAccuracyInsight = 5
	MinTrialsForWarning         = 10
	MinDaysForBehaviorTrend     = 3
	MinTrialsPerBucket          = 10
	MinTrialsPerCorrelationDay  = 5
	MinWeekdayBuckets           = 3
	MinTrialsForTiming          = 5
	MinStreakDays               = 5
)

// Check-in correlation partitions and thresholds. Diffs are percentage
// points and must be exceeded strictly.
const (
	SleepGoodHours      = 8.0
	SleepPoorHours      = 6.0
	MinSleepGoodDays    = 3
	MinSleepPoorDays    = 3
	MinMoodGoodDays     = 3
	MinMoodPoorDays     = 2
	MinHealthNormalDays = 3
	MinHealthOtherDays  = 2
	SleepDiffThreshold  = 15
	MoodDiffThreshold   = 10
	HealthDiffThreshold = 20
)

// Temporal, fatigue and pacing thresholds.
const (
	HourGapThreshold        = 15
	FatigueBucketSize       = 5
	FatigueDropThreshold    = 15
	SlowProgramThresholdSec = 30.0
)

// Optimization advisor thresholds.
const (
	MinSessionsPerWeek   = 3
	NeglectDays          = 7
	MinReinforcerVariety = 3
	ReinforcerTrialFloor = 20
)

// Milestone detection windows (a crossing must be recent to celebrate).
const (
	TrialMilestoneWindow   = 50
	SessionMilestoneWindow = 3
)

// Recommendation scoring.
const (
	BaseRecommendationScore = 50
	NotAtTargetBoost        = 20
	RecencyBoostPerDay      = 5
	RecencyBoostCap         = 30
	NeverPracticedBoost     = 30
	BadDayPenalty           = 20
	LowAccuracyThreshold    = 50
	MaxRecommendations      = 5
)

// MaxReportInsights caps the insight section of a compiled report.
const MaxReportInsights = 10

// insightNamespace seeds deterministic insight IDs. A rule firing on the
// same entity across runs yields the same ID, so clients can de-duplicate.
var insightNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func insightID(category models.InsightCategory, entity string) string {
	return uuid.NewSHA1(insightNamespace, []byte(string(category)+":"+entity)).String()
}

// snapshot is a single consistent read of everything the analyzers need.
// Trials and sessions are loaded all-time because milestones, streaks and
// neglect detection look beyond the rolling windows; check-ins and
// behavior records are bounded.
type snapshot struct {
	programs        []models.Program
	trials          []models.Trial
	sessions        []models.Session
	behaviors       []models.Behavior
	behaviorRecords []models.BehaviorRecord
	checkins        []models.DailyCheckin
}

type intelligenceService struct {
	store *repository.Store
	now   func() time.Time
}

// NewIntelligenceService creates a new intelligence service
func NewIntelligenceService(store *repository.Store) IntelligenceService {
	return &intelligenceService{store: store, now: time.Now}
}

func (s *intelligenceService) loadSnapshot(ctx context.Context, now time.Time) (*snapshot, error) {
	snap := &snapshot{}

	var err error
	if snap.programs, err = s.store.Programs.List(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to load programs: %w", err)
	}
	if snap.trials, err = s.store.Trials.List(ctx, repository.TrialFilter{}); err != nil {
		return nil, fmt.Errorf("failed to load trials: %w", err)
	}
	if snap.sessions, err = s.store.Sessions.List(ctx, repository.SessionFilter{}); err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	if snap.behaviors, err = s.store.Behaviors.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to load behaviors: %w", err)
	}

	recordsSince := now.AddDate(0, 0, -DefaultWindowDays)
	if snap.behaviorRecords, err = s.store.Behaviors.ListRecords(ctx, repository.BehaviorRecordFilter{Since: &recordsSince}); err != nil {
		return nil, fmt.Errorf("failed to load behavior records: %w", err)
	}

	checkinsSince := now.AddDate(0, 0, -CheckinWindowDays)
	if snap.checkins, err = s.store.Checkins.List(ctx, &checkinsSince); err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	return snap, nil
}

// ComputeInsights runs every analyzer over a fresh snapshot and returns
// the merged, priority-ordered result. Any load failure fails the whole
// run; a partial insight list would silently misrepresent the data.
func (s *intelligenceService) ComputeInsights(ctx context.Context) (*models.InsightsResponse, error) {
	now := s.now()
	snap, err := s.loadSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	insights := computeInsights(snap, now)
	return &models.InsightsResponse{
		Insights:   insights,
		Total:      len(insights),
		ComputedAt: now,
	}, nil
}

func computeInsights(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight
	insights = append(insights, analyzeProgramProgress(snap, now)...)
	insights = append(insights, analyzeBehaviorTrends(snap, now)...)
	insights = append(insights, analyzeCheckinCorrelations(snap, now)...)
	insights = append(insights, analyzeTemporalPatterns(snap, now)...)
	insights = append(insights, analyzeTiming(snap, now)...)
	insights = append(insights, analyzeOptimization(snap, now)...)
	insights = append(insights, analyzeMilestones(snap, now)...)

	sortInsights(insights)
	return insights
}

// sortInsights orders by priority, then recency, then title for a stable
// total order.
func sortInsights(insights []models.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Priority != insights[j].Priority {
			return insights[i].Priority < insights[j].Priority
		}
		if !insights[i].Timestamp.Equal(insights[j].Timestamp) {
			return insights[i].Timestamp.After(insights[j].Timestamp)
		}
		return insights[i].Title < insights[j].Title
	})
}

// ComputeRecommendations builds the prioritized next-session list. Time
// goals derived along the way are persisted as a side effect; a persist
// failure is logged but does not fail the request.
func (s *intelligenceService) ComputeRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	now := s.now()
	snap, err := s.loadSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	s.persistTimeGoals(ctx, snap, now)
	return computeRecommendations(snap, now), nil
}

func trialsSince(trials []models.Trial, since time.Time) []models.Trial {
	out := make([]models.Trial, 0, len(trials))
	for _, t := range trials {
		if !t.Timestamp.Before(since) {
			out = append(out, t)
		}
	}
	return out
}
