package service

import (
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

var (
	trialMilestones   = []int{100, 250, 500, 1000, 2500, 5000, 10000}
	sessionMilestones = []int{10, 25, 50, 100, 250, 500}
)

// analyzeMilestones emits celebrations for cumulative trial and session
// counts and for consecutive-day session streaks. Counts are all-time,
// not windowed.
func analyzeMilestones(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	totalTrials := len(snap.trials)
	// A milestone stays visible while the total sits in its half-open
	// "recently crossed" window, then ages out on its own.
	if m, ok := crossedMilestone(totalTrials, trialMilestones, TrialMilestoneWindow); ok {
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryTrialMilestone, fmt.Sprintf("%d", m)),
			Type:        models.InsightCelebration,
			Priority:    models.PriorityLow,
			Category:    models.CategoryTrialMilestone,
			Title:       fmt.Sprintf("%d trials!", m),
			Description: fmt.Sprintf("Total trials crossed %d, now at %d. Great consistency!", m, totalTrials),
			Metrics: &models.InsightMetrics{Milestone: &models.MilestoneMetrics{
				Milestone: m,
				Total:     totalTrials,
			}},
			Timestamp: now,
		})
	}

	completedSessions := 0
	for _, s := range snap.sessions {
		if s.Status == models.SessionCompleted {
			completedSessions++
		}
	}
	if m, ok := crossedMilestone(completedSessions, sessionMilestones, SessionMilestoneWindow); ok {
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategorySessionMilestone, fmt.Sprintf("%d", m)),
			Type:        models.InsightCelebration,
			Priority:    models.PriorityLow,
			Category:    models.CategorySessionMilestone,
			Title:       fmt.Sprintf("%d sessions!", m),
			Description: fmt.Sprintf("Completed sessions crossed %d, now at %d.", m, completedSessions),
			Metrics: &models.InsightMetrics{Milestone: &models.MilestoneMetrics{
				Milestone: m,
				Total:     completedSessions,
			}},
			Timestamp: now,
		})
	}

	if streak := sessionStreak(snap.sessions, now); streak >= MinStreakDays {
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryStreak, ""),
			Type:        models.InsightCelebration,
			Priority:    models.PriorityLow,
			Category:    models.CategoryStreak,
			Title:       fmt.Sprintf("%d-day streak!", streak),
			Description: fmt.Sprintf("A completed session every day for %d days in a row.", streak),
			Metrics: &models.InsightMetrics{Streak: &models.StreakMetrics{
				ConsecutiveDays: streak,
			}},
			Timestamp: now,
		})
	}

	return insights
}

// crossedMilestone returns the largest milestone whose [milestone,
// milestone+window) range contains total.
func crossedMilestone(total int, milestones []int, window int) (int, bool) {
	for i := len(milestones) - 1; i >= 0; i-- {
		m := milestones[i]
		if total >= m && total < m+window {
			return m, true
		}
	}
	return 0, false
}

// sessionStreak walks backward from today one calendar day at a time
// while a completed session exists on that date.
func sessionStreak(sessions []models.Session, now time.Time) int {
	daysWithSession := make(map[string]struct{})
	for _, s := range sessions {
		if s.Status == models.SessionCompleted {
			daysWithSession[dayKey(s.StartTime)] = struct{}{}
		}
	}

	streak := 0
	day := now
	for {
		if _, ok := daysWithSession[dayKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
