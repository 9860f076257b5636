package service

import (
	"fmt"
	"math"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// analyzeOptimization runs the three scheduling rules: session frequency,
// neglected programs, and reinforcer diversity.
func analyzeOptimization(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	if insight := checkSessionFrequency(snap, now); insight != nil {
		insights = append(insights, *insight)
	}
	insights = append(insights, checkNeglectedPrograms(snap, now)...)
	if insight := checkReinforcerDiversity(snap, now); insight != nil {
		insights = append(insights, *insight)
	}

	return insights
}

func checkSessionFrequency(snap *snapshot, now time.Time) *models.Insight {
	windowStart := now.AddDate(0, 0, -RecentWindowDays)

	completed := 0
	for _, s := range snap.sessions {
		if s.Status == models.SessionCompleted && !s.StartTime.Before(windowStart) {
			completed++
		}
	}

	perWeek := float64(completed) / 2
	if perWeek >= MinSessionsPerWeek {
		return nil
	}

	return &models.Insight{
		ID:          insightID(models.CategorySessionFrequency, ""),
		Type:        models.InsightSuggestion,
		Priority:    models.PriorityMedium,
		Category:    models.CategorySessionFrequency,
		Title:       "Session frequency is low",
		Description: fmt.Sprintf("Only %d completed sessions in the last two weeks (about %.1f per week).", completed, perWeek),
		Suggestion:  fmt.Sprintf("Aim for at least %d sessions per week for consistent progress.", MinSessionsPerWeek),
		Metrics: &models.InsightMetrics{Frequency: &models.FrequencyMetrics{
			SessionsPerWeek:   math.Round(10*perWeek) / 10,
			CompletedSessions: completed,
			WindowDays:        RecentWindowDays,
		}},
		Timestamp: now,
	}
}

func checkNeglectedPrograms(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	lastTrialByProgram := make(map[string]time.Time)
	for _, t := range snap.trials {
		if t.Timestamp.After(lastTrialByProgram[t.ProgramID]) {
			lastTrialByProgram[t.ProgramID] = t.Timestamp
		}
	}

	for _, program := range snap.programs {
		if program.Status != models.ProgramActive {
			continue
		}

		last, ok := lastTrialByProgram[program.ID]
		if !ok {
			// Never practiced: no reference point to measure from, so no
			// insight; the recommendation list surfaces these instead.
			continue
		}

		// Compare the raw gap so a program idle for 7.5 days still counts
		// as older than the threshold; the day count is display only.
		idle := now.Sub(last)
		if idle <= time.Duration(NeglectDays)*24*time.Hour {
			continue
		}
		daysSince := int(idle.Hours() / 24)

		programID := program.ID
		insights = append(insights, models.Insight{
			ID:               insightID(models.CategoryNeglectedProgram, programID),
			Type:             models.InsightSuggestion,
			Priority:         models.PriorityLow,
			Category:         models.CategoryNeglectedProgram,
			Title:            fmt.Sprintf("%s has been idle", program.Name),
			Description:      fmt.Sprintf("%s has had no trials for %d days.", program.Name, daysSince),
			Suggestion:       "Work it into the next session to avoid skill regression.",
			RelatedProgramID: &programID,
			Metrics: &models.InsightMetrics{Neglect: &models.NeglectMetrics{
				DaysSinceLastTrial: daysSince,
			}},
			Timestamp: now,
		})
	}

	return insights
}

func checkReinforcerDiversity(snap *snapshot, now time.Time) *models.Insight {
	windowStart := now.AddDate(0, 0, -WeekWindowDays)

	distinct := make(map[string]struct{})
	trialCount := 0
	for _, t := range snap.trials {
		if t.Timestamp.Before(windowStart) {
			continue
		}
		trialCount++
		if t.Reinforcer != nil && *t.Reinforcer != "" {
			distinct[*t.Reinforcer] = struct{}{}
		}
	}

	if trialCount <= ReinforcerTrialFloor || len(distinct) >= MinReinforcerVariety {
		return nil
	}

	return &models.Insight{
		ID:          insightID(models.CategoryReinforcerVariety, ""),
		Type:        models.InsightSuggestion,
		Priority:    models.PriorityLow,
		Category:    models.CategoryReinforcerVariety,
		Title:       "Reinforcer variety is narrow",
		Description: fmt.Sprintf("Only %d distinct reinforcers were used across %d trials this week.", len(distinct), trialCount),
		Suggestion:  "Rotating reinforcers helps keep motivation high; try adding a few new options.",
		Metrics: &models.InsightMetrics{Reinforcer: &models.ReinforcerMetrics{
			DistinctReinforcers: len(distinct),
			TrialCount:          trialCount,
		}},
		Timestamp: now,
	}
}
