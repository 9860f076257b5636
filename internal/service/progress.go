package service

import (
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// analyzeProgramProgress emits accuracy-based insights per active program:
// a success when a program meets its target, a high-priority warning when
// it is clearly struggling.
func analyzeProgramProgress(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	windowStart := now.AddDate(0, 0, -DefaultWindowDays)
	windowTrials := trialsSince(snap.trials, windowStart)

	for _, program := range snap.programs {
		if program.Status != models.ProgramActive {
			continue
		}

		stats := computeTrialStats(windowTrials, program.ID, DefaultWindowDays)
		if stats.Total < MinTrialsForAccuracyInsight {
			continue
		}

		programID := program.ID
		metrics := &models.InsightMetrics{Accuracy: &models.AccuracyMetrics{
			Accuracy:       stats.Accuracy,
			TargetAccuracy: program.TargetAccuracy,
			TotalTrials:    stats.Total,
		}}

		if stats.Accuracy >= program.TargetAccuracy {
			insights = append(insights, models.Insight{
				ID:               insightID(models.CategoryProgramMastery, programID),
				Type:             models.InsightSuccess,
				Priority:         models.PriorityLow,
				Category:         models.CategoryProgramMastery,
				Title:            fmt.Sprintf("%s is at target", program.Name),
				Description:      fmt.Sprintf("%s is running at %d%% accuracy, meeting its %d%% target.", program.Name, stats.Accuracy, program.TargetAccuracy),
				Suggestion:       "Consider moving to maintenance or introducing new targets.",
				RelatedProgramID: &programID,
				Metrics:          metrics,
				Timestamp:        now,
			})
			continue
		}

		// Struggling-program warnings need a larger sample than successes.
		if stats.Total >= MinTrialsForWarning && stats.Accuracy < LowAccuracyThreshold {
			insights = append(insights, models.Insight{
				ID:               insightID(models.CategoryProgramDifficult, programID),
				Type:             models.InsightWarning,
				Priority:         models.PriorityHigh,
				Category:         models.CategoryProgramDifficult,
				Title:            fmt.Sprintf("%s looks difficult", program.Name),
				Description:      fmt.Sprintf("%s is at %d%% accuracy over %d trials, well below its %d%% target.", program.Name, stats.Accuracy, stats.Total, program.TargetAccuracy),
				Suggestion:       "Consider increasing prompt support or breaking the skill into smaller steps.",
				RelatedProgramID: &programID,
				Metrics:          metrics,
				Timestamp:        now,
			})
		}
	}

	return insights
}

// analyzeBehaviorTrends emits insights for behaviors whose recent
// frequency is moving against (or with) their therapeutic goal.
func analyzeBehaviorTrends(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	for _, behavior := range snap.behaviors {
		records := make([]models.BehaviorRecord, 0)
		for _, r := range snap.behaviorRecords {
			if r.BehaviorID == behavior.ID {
				records = append(records, r)
			}
		}

		stats := computeBehaviorStats(records, behavior.ID, DefaultWindowDays)
		if stats.DaysRecorded < MinDaysForBehaviorTrend || stats.Trend == models.TrendStable || stats.Trend == "" {
			continue
		}

		behaviorID := behavior.ID
		metrics := &models.InsightMetrics{Behavior: &models.BehaviorMetrics{
			AvgPerDay:    stats.AvgPerDay,
			DaysRecorded: stats.DaysRecorded,
		}}

		rising := stats.Trend == models.TrendIncreasing

		switch {
		case behavior.Type == models.BehaviorDecrease && rising:
			priority := models.PriorityMedium
			if behavior.Severity == models.SeverityHigh {
				priority = models.PriorityHigh
			}
			insights = append(insights, models.Insight{
				ID:                insightID(models.CategoryBehaviorTrend, behaviorID),
				Type:              models.InsightWarning,
				Priority:          priority,
				Category:          models.CategoryBehaviorTrend,
				Title:             fmt.Sprintf("%s is increasing", behavior.Name),
				Description:       fmt.Sprintf("%s is being recorded more often (about %.1f per day).", behavior.Name, stats.AvgPerDay),
				Suggestion:        "Review antecedents from recent sessions and consider a strategy adjustment.",
				RelatedBehaviorID: &behaviorID,
				Metrics:           metrics,
				Timestamp:         now,
			})
		case behavior.Type == models.BehaviorDecrease && !rising:
			insights = append(insights, models.Insight{
				ID:                insightID(models.CategoryBehaviorTrend, behaviorID),
				Type:              models.InsightSuccess,
				Priority:          models.PriorityLow,
				Category:          models.CategoryBehaviorTrend,
				Title:             fmt.Sprintf("%s is decreasing", behavior.Name),
				Description:       fmt.Sprintf("%s occurrences are trending down; the current approach is working.", behavior.Name),
				RelatedBehaviorID: &behaviorID,
				Metrics:           metrics,
				Timestamp:         now,
			})
		case behavior.Type == models.BehaviorIncrease && rising:
			insights = append(insights, models.Insight{
				ID:                insightID(models.CategoryBehaviorTrend, behaviorID),
				Type:              models.InsightSuccess,
				Priority:          models.PriorityLow,
				Category:          models.CategoryBehaviorTrend,
				Title:             fmt.Sprintf("%s is increasing", behavior.Name),
				Description:       fmt.Sprintf("%s is being recorded more often (about %.1f per day), good progress.", behavior.Name, stats.AvgPerDay),
				RelatedBehaviorID: &behaviorID,
				Metrics:           metrics,
				Timestamp:         now,
			})
		}
	}

	return insights
}
