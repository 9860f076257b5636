package service

import (
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// formatHour formats an hour (0-23) as a readable string
func formatHour(hour int) string {
	if hour == 0 {
		return "12 AM"
	} else if hour < 12 {
		return fmt.Sprintf("%d AM", hour)
	} else if hour == 12 {
		return "12 PM"
	}
	return fmt.Sprintf("%d PM", hour-12)
}

type accuracyBucket struct {
	index    int
	total    int
	correct  int
	accuracy int
}

// bucketAccuracy groups trials by the given key function, drops buckets
// below the per-bucket sample floor, and computes per-bucket accuracy.
func bucketAccuracy(trials []models.Trial, buckets int, key func(time.Time) int) []accuracyBucket {
	totals := make([]int, buckets)
	corrects := make([]int, buckets)
	for _, t := range trials {
		i := key(t.Timestamp)
		totals[i]++
		if t.Result == models.TrialResultCorrect {
			corrects[i]++
		}
	}

	var qualifying []accuracyBucket
	for i := 0; i < buckets; i++ {
		if totals[i] < MinTrialsPerBucket {
			continue
		}
		qualifying = append(qualifying, accuracyBucket{
			index:    i,
			total:    totals[i],
			correct:  corrects[i],
			accuracy: roundPct(corrects[i], totals[i]),
		})
	}
	return qualifying
}

// analyzeTemporalPatterns finds the best hour of day and best weekday by
// trial accuracy. The hour insight requires a meaningful gap between the
// best and worst hour; the weekday insight fires whenever at least three
// weekdays qualify, with no gap requirement.
func analyzeTemporalPatterns(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	windowStart := now.AddDate(0, 0, -DefaultWindowDays)
	trials := trialsSince(snap.trials, windowStart)

	hours := bucketAccuracy(trials, 24, func(t time.Time) int { return t.Hour() })
	if len(hours) >= 2 {
		best, worst := hours[0], hours[0]
		for _, b := range hours[1:] {
			if b.accuracy > best.accuracy {
				best = b
			}
			if b.accuracy < worst.accuracy {
				worst = b
			}
		}

		if gap := best.accuracy - worst.accuracy; gap > HourGapThreshold {
			insights = append(insights, models.Insight{
				ID:          insightID(models.CategoryBestHour, ""),
				Type:        models.InsightInfo,
				Priority:    models.PriorityMedium,
				Category:    models.CategoryBestHour,
				Title:       fmt.Sprintf("Best hour: %s", formatHour(best.index)),
				Description: fmt.Sprintf("Accuracy at %s is %d%%, versus %d%% at %s.", formatHour(best.index), best.accuracy, worst.accuracy, formatHour(worst.index)),
				Suggestion:  fmt.Sprintf("Schedule harder programs around %s when possible.", formatHour(best.index)),
				Metrics: &models.InsightMetrics{Temporal: &models.TemporalMetrics{
					Bucket:        best.index,
					BucketLabel:   formatHour(best.index),
					BestAccuracy:  best.accuracy,
					WorstAccuracy: worst.accuracy,
					Gap:           gap,
				}},
				Timestamp: now,
			})
		}
	}

	weekdays := bucketAccuracy(trials, 7, func(t time.Time) int { return int(t.Weekday()) })
	// Unlike hours, the weekday insight has no gap requirement.
	if len(weekdays) >= MinWeekdayBuckets {
		best := weekdays[0]
		for _, b := range weekdays[1:] {
			if b.accuracy > best.accuracy {
				best = b
			}
		}

		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryBestWeekday, ""),
			Type:        models.InsightInfo,
			Priority:    models.PriorityLow,
			Category:    models.CategoryBestWeekday,
			Title:       fmt.Sprintf("Best day: %s", weekdayNames[best.index]),
			Description: fmt.Sprintf("%s sessions have the highest accuracy (%d%%).", weekdayNames[best.index], best.accuracy),
			Metrics: &models.InsightMetrics{Temporal: &models.TemporalMetrics{
				Bucket:       best.index,
				BucketLabel:  weekdayNames[best.index],
				BestAccuracy: best.accuracy,
			}},
			Timestamp: now,
		})
	}

	return insights
}
