package service

import (
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// dayAccuracy aggregates one calendar day's trials.
type dayAccuracy struct {
	total   int
	correct int
}

// trialDays groups trials by calendar day, keeping only days with enough
// trials to compare against a check-in.
func trialDays(trials []models.Trial) map[string]dayAccuracy {
	byDay := make(map[string]dayAccuracy)
	for _, t := range trials {
		agg := byDay[dayKey(t.Timestamp)]
		agg.total++
		if t.Result == models.TrialResultCorrect {
			agg.correct++
		}
		byDay[dayKey(t.Timestamp)] = agg
	}

	for key, agg := range byDay {
		if agg.total < MinTrialsPerCorrelationDay {
			delete(byDay, key)
		}
	}
	return byDay
}

// groupAccuracy pools trials across a group of days into one accuracy
// figure: sum of correct over sum of total, not a mean of daily means.
func groupAccuracy(days []dayAccuracy) int {
	var total, correct int
	for _, d := range days {
		total += d.total
		correct += d.correct
	}
	return roundPct(correct, total)
}

// checkinPartition is one attribute's split of qualifying days.
type checkinPartition struct {
	attribute     string
	category      models.InsightCategory
	good, poor    []dayAccuracy
	minGood       int
	minPoor       int
	diffThreshold int
	goodLabel     string
	poorLabel     string
}

// analyzeCheckinCorrelations compares trial accuracy between days grouped
// by check-in attributes. Wording stays observational; these are
// correlations, not causes.
func analyzeCheckinCorrelations(snap *snapshot, now time.Time) []models.Insight {
	windowStart := now.AddDate(0, 0, -DefaultWindowDays)
	days := trialDays(trialsSince(snap.trials, windowStart))
	if len(days) == 0 {
		return nil
	}

	partitions := []checkinPartition{
		{
			attribute: "sleep", category: models.CategorySleepCorrelation,
			minGood: MinSleepGoodDays, minPoor: MinSleepPoorDays,
			diffThreshold: SleepDiffThreshold,
			goodLabel:     fmt.Sprintf("%.0f+ hours of sleep", SleepGoodHours),
			poorLabel:     fmt.Sprintf("under %.0f hours", SleepPoorHours),
		},
		{
			attribute: "mood", category: models.CategoryMoodCorrelation,
			minGood: MinMoodGoodDays, minPoor: MinMoodPoorDays,
			diffThreshold: MoodDiffThreshold,
			goodLabel:     "positive-mood days",
			poorLabel:     "low-mood days",
		},
		{
			attribute: "health", category: models.CategoryHealthCorrelation,
			minGood: MinHealthNormalDays, minPoor: MinHealthOtherDays,
			diffThreshold: HealthDiffThreshold,
			goodLabel:     "days of normal health",
			poorLabel:     "days with health issues",
		},
	}

	for _, checkin := range snap.checkins {
		agg, ok := days[dayKey(checkin.Date)]
		if !ok {
			continue
		}

		switch {
		case checkin.SleepHours >= SleepGoodHours:
			partitions[0].good = append(partitions[0].good, agg)
		case checkin.SleepHours < SleepPoorHours:
			partitions[0].poor = append(partitions[0].poor, agg)
		}

		switch {
		case checkin.Mood.IsPositive():
			partitions[1].good = append(partitions[1].good, agg)
		case checkin.Mood.IsNegative():
			partitions[1].poor = append(partitions[1].poor, agg)
		}

		if checkin.Health == models.HealthNormal {
			partitions[2].good = append(partitions[2].good, agg)
		} else {
			partitions[2].poor = append(partitions[2].poor, agg)
		}
	}

	var insights []models.Insight
	for _, p := range partitions {
		// Both groups must meet their day floor, even when the gap is large.
		if len(p.good) < p.minGood || len(p.poor) < p.minPoor {
			continue
		}

		goodAcc := groupAccuracy(p.good)
		poorAcc := groupAccuracy(p.poor)
		diff := goodAcc - poorAcc
		if diff < 0 {
			diff = -diff
		}
		if diff <= p.diffThreshold {
			continue
		}

		insights = append(insights, models.Insight{
			ID:       insightID(p.category, ""),
			Type:     models.InsightInfo,
			Priority: models.PriorityMedium,
			Category: p.category,
			Title:    fmt.Sprintf("%s appears linked to accuracy", titleCase(p.attribute)),
			Description: fmt.Sprintf("Accuracy averages %d%% on %s versus %d%% on %s, a %d point difference.",
				goodAcc, p.goodLabel, poorAcc, p.poorLabel, diff),
			Metrics: &models.InsightMetrics{Correlation: &models.CorrelationMetrics{
				Attribute:    p.attribute,
				GoodAccuracy: goodAcc,
				PoorAccuracy: poorAcc,
				Diff:         diff,
				GoodDays:     len(p.good),
				PoorDays:     len(p.poor),
			}},
			Timestamp: now,
		})
	}

	return insights
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
