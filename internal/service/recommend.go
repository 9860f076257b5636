package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bloomhq/bloom/backend/internal/logger"
	"github.com/bloomhq/bloom/backend/internal/models"
)

// Reasons attached to program recommendations, by priority of condition.
const (
	ReasonMaintenance  = "maintenance"
	ReasonMorePractice = "needs more practice"
	ReasonDifficulty   = "difficulty, increase prompting"
	ReasonNormal       = "normal progress"
)

// computeRecommendations scores every active program for the next session
// and returns the top picks, optionally preceded by a lighter-day tip when
// today's check-in warrants one.
func computeRecommendations(snap *snapshot, now time.Time) []models.Recommendation {
	recentStart := now.AddDate(0, 0, -RecentWindowDays)
	recentTrials := trialsSince(snap.trials, recentStart)

	lastTrialByProgram := make(map[string]time.Time)
	for _, t := range snap.trials {
		if t.Timestamp.After(lastTrialByProgram[t.ProgramID]) {
			lastTrialByProgram[t.ProgramID] = t.Timestamp
		}
	}

	// The dampener keys on low-energy moods only; an angry day does not
	// call for easier programs the way a tired or sad one does.
	today := todaysCheckin(snap.checkins, now)
	badDay := today != nil && (today.Mood == models.MoodTired || today.Mood == models.MoodSad)

	type scored struct {
		rec   models.Recommendation
		score int
	}
	var candidates []scored

	for _, program := range snap.programs {
		if program.Status != models.ProgramActive {
			continue
		}

		stats := computeTrialStats(recentTrials, program.ID, RecentWindowDays)
		progress := computeProgramProgress(program, trialsSince(snap.trials, now.AddDate(0, 0, -DefaultWindowDays)))

		score := BaseRecommendationScore
		if !progress.IsAtTarget {
			score += NotAtTargetBoost
		}

		if last, ok := lastTrialByProgram[program.ID]; ok {
			daysSince := int(now.Sub(last).Hours() / 24)
			boost := daysSince * RecencyBoostPerDay
			if boost > RecencyBoostCap {
				boost = RecencyBoostCap
			}
			score += boost
		} else {
			score += NeverPracticedBoost
		}

		// Avoid pushing a hard program on a tired or low day.
		if badDay && stats.Total > 0 && stats.Accuracy < LowAccuracyThreshold {
			score -= BadDayPenalty
		}

		accuracy := stats.Accuracy
		rec := models.Recommendation{
			Kind:            models.RecommendationProgram,
			ProgramID:       program.ID,
			Name:            program.Name,
			Category:        program.Category,
			Reason:          recommendationReason(progress.IsAtTarget, stats),
			SuggestedTrials: suggestedTrials(progress.IsAtTarget, stats),
			CurrentAccuracy: &accuracy,
			PriorityScore:   score,
		}

		candidates = append(candidates, scored{rec: rec, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.Name < candidates[j].rec.Name
	})

	if len(candidates) > MaxRecommendations {
		candidates = candidates[:MaxRecommendations]
	}

	recommendations := make([]models.Recommendation, 0, len(candidates)+1)
	if tip := dailyTip(today); tip != nil {
		recommendations = append(recommendations, *tip)
	}
	for _, c := range candidates {
		recommendations = append(recommendations, c.rec)
	}

	return recommendations
}

func recommendationReason(isAtTarget bool, stats models.TrialStats) string {
	switch {
	case isAtTarget:
		return ReasonMaintenance
	case stats.Total < MinTrialsForWarning:
		return ReasonMorePractice
	case stats.Accuracy < LowAccuracyThreshold:
		return ReasonDifficulty
	default:
		return ReasonNormal
	}
}

func suggestedTrials(isAtTarget bool, stats models.TrialStats) int {
	switch {
	case isAtTarget:
		return 5 // light maintenance pass
	case stats.Accuracy < LowAccuracyThreshold && stats.Total >= MinTrialsForWarning:
		return 8
	default:
		return 10
	}
}

// dailyTip prepends a lighter-session tip when today's check-in reports
// short sleep or a health issue.
func dailyTip(today *models.DailyCheckin) *models.Recommendation {
	if today == nil {
		return nil
	}

	switch {
	case today.SleepHours > 0 && today.SleepHours < SleepPoorHours:
		return &models.Recommendation{
			Kind:   models.RecommendationTip,
			Reason: fmt.Sprintf("Only %.1f hours of sleep last night; keep today's session short and favor well-practiced programs.", today.SleepHours),
		}
	case today.Health != models.HealthNormal:
		return &models.Recommendation{
			Kind:   models.RecommendationTip,
			Reason: "Today's check-in notes a health issue; consider a shorter session with lighter programs.",
		}
	}
	return nil
}

func todaysCheckin(checkins []models.DailyCheckin, now time.Time) *models.DailyCheckin {
	today := dayKey(now)
	for i := range checkins {
		if dayKey(checkins[i].Date) == today {
			return &checkins[i]
		}
	}
	return nil
}

// persistTimeGoals derives a session time goal per program from the
// recent timing window and writes it through the settings repository.
// This is the engine's only write; a failure is logged, not fatal to the
// recommendation run.
func (s *intelligenceService) persistTimeGoals(ctx context.Context, snap *snapshot, now time.Time) {
	windowStart := now.AddDate(0, 0, -DefaultWindowDays)
	timings := computeTimingByProgram(trialsSince(snap.trials, windowStart), snap.programs)

	goals := make(map[string]models.TimeGoal)
	for _, t := range timings {
		if t.TotalTrials < MinTrialsForTiming {
			continue
		}
		target := int(math.Round(0.9 * t.AvgDurationSec))
		if min := int(math.Ceil(t.MinDurationSec)); target < min {
			target = min
		}
		if target < 1 {
			target = 1
		}
		goals[t.ProgramID] = models.TimeGoal{
			ProgramID:         t.ProgramID,
			TargetDurationSec: target,
			UpdatedAt:         now,
		}
	}

	if len(goals) == 0 {
		return
	}

	if _, err := s.store.Settings.Update(ctx, &models.SettingsPatch{TimeGoals: goals}); err != nil {
		logger.Ctx(ctx).Warn("failed to persist time goals", logger.Err(err), logger.Int("goals", len(goals)))
	}
}
