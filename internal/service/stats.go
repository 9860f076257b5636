package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/internal/repository"
)

type analyticsService struct {
	store *repository.Store
	now   func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(store *repository.Store) AnalyticsService {
	return &analyticsService{store: store, now: time.Now}
}

func (s *analyticsService) GetTrialStats(ctx context.Context, programID string, windowDays int) (*models.TrialStats, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -windowDays)

	trials, err := s.store.Trials.List(ctx, repository.TrialFilter{ProgramID: programID, Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to get trials: %w", err)
	}

	stats := computeTrialStats(trials, programID, windowDays)
	return &stats, nil
}

func (s *analyticsService) GetBehaviorStats(ctx context.Context, behaviorID string, windowDays int) (*models.BehaviorStats, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -windowDays)

	records, err := s.store.Behaviors.ListRecords(ctx, repository.BehaviorRecordFilter{BehaviorID: behaviorID, Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to get behavior records: %w", err)
	}

	stats := computeBehaviorStats(records, behaviorID, windowDays)
	return &stats, nil
}

func (s *analyticsService) GetProgramProgress(ctx context.Context, programID string) (*models.ProgramProgress, error) {
	programs, err := s.store.Programs.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get programs: %w", err)
	}

	var program *models.Program
	for i := range programs {
		if programs[i].ID == programID {
			program = &programs[i]
			break
		}
	}
	if program == nil {
		return nil, fmt.Errorf("program %s: %w", programID, ErrNotFound)
	}

	now := s.now()
	since := now.AddDate(0, 0, -DefaultWindowDays)
	trials, err := s.store.Trials.List(ctx, repository.TrialFilter{ProgramID: programID, Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to get trials: %w", err)
	}

	progress := computeProgramProgress(*program, trials)
	return &progress, nil
}

func (s *analyticsService) GetTimingAnalytics(ctx context.Context, programID string, windowDays int) (*models.TimingAnalytics, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -windowDays)

	trials, err := s.store.Trials.List(ctx, repository.TrialFilter{ProgramID: programID, Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to get trials: %w", err)
	}

	analytics := computeTimingAnalytics(trials)
	return &analytics, nil
}

func (s *analyticsService) GetTimingByProgram(ctx context.Context, windowDays int) ([]models.ProgramTiming, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -windowDays)

	trials, err := s.store.Trials.List(ctx, repository.TrialFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("failed to get trials: %w", err)
	}

	programs, err := s.store.Programs.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get programs: %w", err)
	}

	return computeTimingByProgram(trials, programs), nil
}

// =============================================================================
// Pure aggregation helpers, shared with the intelligence service
// =============================================================================

// roundPct returns round(100 * part/total) clamped to [0,100].
// A zero total yields 0.
func roundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(part) / float64(total)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func computeTrialStats(trials []models.Trial, programID string, windowDays int) models.TrialStats {
	stats := models.TrialStats{ProgramID: programID, WindowDays: windowDays}

	independent := 0
	for _, t := range trials {
		if programID != "" && t.ProgramID != programID {
			continue
		}
		stats.Total++
		if t.Result == models.TrialResultCorrect {
			stats.Correct++
		}
		if t.PromptLevel == models.PromptIndependent {
			independent++
		}
	}

	stats.Accuracy = roundPct(stats.Correct, stats.Total)
	stats.IndependentRate = roundPct(independent, stats.Total)
	return stats
}

func computeBehaviorStats(records []models.BehaviorRecord, behaviorID string, windowDays int) models.BehaviorStats {
	stats := models.BehaviorStats{BehaviorID: behaviorID, WindowDays: windowDays}

	countsByDay := make(map[string]int)
	total := 0
	for _, r := range records {
		if behaviorID != "" && r.BehaviorID != behaviorID {
			continue
		}
		countsByDay[dayKey(r.Timestamp)] += r.Occurrences()
		total += r.Occurrences()
	}

	stats.DaysRecorded = len(countsByDay)
	if stats.DaysRecorded > 0 {
		stats.AvgPerDay = math.Round(10*float64(total)/float64(stats.DaysRecorded)) / 10
	}

	// Trend is withheld below the minimum recorded-day sample.
	if stats.DaysRecorded >= MinDaysForBehaviorTrend {
		stats.Trend = classifyTrend(sortedDailySeries(countsByDay), frequencyTrendLabels)
	}

	return stats
}

func computeProgramProgress(program models.Program, trials []models.Trial) models.ProgramProgress {
	stats := computeTrialStats(trials, program.ID, DefaultWindowDays)

	progress := models.ProgramProgress{
		ProgramID:  program.ID,
		Accuracy:   stats.Accuracy,
		IsAtTarget: stats.Total > 0 && stats.Accuracy >= program.TargetAccuracy,
		Trend:      models.TrendStable,
	}

	series := dailyAccuracySeries(filterProgramTrials(trials, program.ID))
	if len(series) >= 2 {
		progress.Trend = classifyTrend(series, accuracyTrendLabels)
	}

	return progress
}

func filterProgramTrials(trials []models.Trial, programID string) []models.Trial {
	if programID == "" {
		return trials
	}
	out := make([]models.Trial, 0, len(trials))
	for _, t := range trials {
		if t.ProgramID == programID {
			out = append(out, t)
		}
	}
	return out
}

// dailyAccuracySeries reduces trials to one accuracy value per calendar
// day, ordered by day.
func dailyAccuracySeries(trials []models.Trial) []float64 {
	type dayAgg struct {
		total   int
		correct int
	}
	byDay := make(map[string]*dayAgg)
	for _, t := range trials {
		key := dayKey(t.Timestamp)
		agg, ok := byDay[key]
		if !ok {
			agg = &dayAgg{}
			byDay[key] = agg
		}
		agg.total++
		if t.Result == models.TrialResultCorrect {
			agg.correct++
		}
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	series := make([]float64, 0, len(days))
	for _, d := range days {
		agg := byDay[d]
		series = append(series, 100*float64(agg.correct)/float64(agg.total))
	}
	return series
}

// sortedDailySeries flattens a day->count map into a day-ordered series.
func sortedDailySeries(countsByDay map[string]int) []float64 {
	days := make([]string, 0, len(countsByDay))
	for d := range countsByDay {
		days = append(days, d)
	}
	sort.Strings(days)

	series := make([]float64, 0, len(days))
	for _, d := range days {
		series = append(series, float64(countsByDay[d]))
	}
	return series
}
