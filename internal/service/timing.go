package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// computeTimingAnalytics derives timing aggregates from a trial window.
// Every sub-statistic is withheld independently below its sample floor;
// HasData is false only when none of them could be computed.
func computeTimingAnalytics(trials []models.Trial) models.TimingAnalytics {
	analytics := models.TimingAnalytics{}

	if hour, accuracy, ok := bestAccuracyHour(trials); ok {
		analytics.BestPerformanceHour = &hour
		analytics.BestPerformanceHourAccuracy = accuracy
		analytics.HasData = true
	}

	if series := dailyAccuracySeries(trials); len(series) >= 2 {
		analytics.PerformanceTrend = classifyTrend(series, performanceTrendLabels)
		analytics.HasData = true
	}

	if series := durationSeries(trials); len(series) >= 2 {
		analytics.DurationTrend = classifyTrend(series, durationTrendLabels)
		analytics.HasData = true
	}

	if breakAt, ok := fatigueBreakPoint(trials); ok {
		analytics.SuggestedFatigueBreakAt = &breakAt
		analytics.HasData = true
	}

	return analytics
}

// bestAccuracyHour finds the hour-of-day bucket with the highest accuracy
// among buckets that meet the per-bucket sample floor.
func bestAccuracyHour(trials []models.Trial) (hour, accuracy int, ok bool) {
	totals := make(map[int]int)
	corrects := make(map[int]int)
	for _, t := range trials {
		h := t.Timestamp.Hour()
		totals[h]++
		if t.Result == models.TrialResultCorrect {
			corrects[h]++
		}
	}

	best := -1
	bestAccuracy := -1
	for h, total := range totals {
		if total < MinTrialsPerBucket {
			continue
		}
		acc := roundPct(corrects[h], total)
		if acc > bestAccuracy || (acc == bestAccuracy && h < best) {
			best = h
			bestAccuracy = acc
		}
	}

	if best < 0 {
		return 0, 0, false
	}
	return best, bestAccuracy, true
}

// durationSeries returns per-trial durations in seconds, in timestamp
// order, for trials that recorded a duration.
func durationSeries(trials []models.Trial) []float64 {
	timed := make([]models.Trial, 0, len(trials))
	for _, t := range trials {
		if t.DurationMs != nil {
			timed = append(timed, t)
		}
	}
	sort.Slice(timed, func(i, j int) bool { return timed[i].Timestamp.Before(timed[j].Timestamp) })

	series := make([]float64, 0, len(timed))
	for _, t := range timed {
		series = append(series, float64(*t.DurationMs)/1000)
	}
	return series
}

// fatigueBreakPoint buckets trials by their position within their session
// and reports the first position at which accuracy drops measurably below
// the session's opening accuracy.
func fatigueBreakPoint(trials []models.Trial) (int, bool) {
	bySession := make(map[string][]models.Trial)
	for _, t := range trials {
		if t.SessionID == "" {
			continue
		}
		bySession[t.SessionID] = append(bySession[t.SessionID], t)
	}

	// bucket index -> counts across all sessions
	totals := make(map[int]int)
	corrects := make(map[int]int)
	maxBucket := 0

	for _, sessionTrials := range bySession {
		sort.Slice(sessionTrials, func(i, j int) bool {
			return sessionTrials[i].Timestamp.Before(sessionTrials[j].Timestamp)
		})
		for i, t := range sessionTrials {
			bucket := i / FatigueBucketSize
			totals[bucket]++
			if t.Result == models.TrialResultCorrect {
				corrects[bucket]++
			}
			if bucket > maxBucket {
				maxBucket = bucket
			}
		}
	}

	if totals[0] < MinTrialsPerBucket {
		return 0, false
	}
	baseline := roundPct(corrects[0], totals[0])

	for bucket := 1; bucket <= maxBucket; bucket++ {
		if totals[bucket] < MinTrialsPerBucket {
			continue
		}
		acc := roundPct(corrects[bucket], totals[bucket])
		if baseline-acc >= FatigueDropThreshold {
			return bucket * FatigueBucketSize, true
		}
	}

	return 0, false
}

// fatigueBucketAccuracies returns the opening-bucket and break-bucket
// accuracies for the given break point, for insight metrics.
func fatigueBucketAccuracies(trials []models.Trial, breakAt int) (early, late int) {
	bySession := make(map[string][]models.Trial)
	for _, t := range trials {
		if t.SessionID == "" {
			continue
		}
		bySession[t.SessionID] = append(bySession[t.SessionID], t)
	}

	breakBucket := breakAt / FatigueBucketSize
	var earlyTotal, earlyCorrect, lateTotal, lateCorrect int
	for _, sessionTrials := range bySession {
		sort.Slice(sessionTrials, func(i, j int) bool {
			return sessionTrials[i].Timestamp.Before(sessionTrials[j].Timestamp)
		})
		for i, t := range sessionTrials {
			switch i / FatigueBucketSize {
			case 0:
				earlyTotal++
				if t.Result == models.TrialResultCorrect {
					earlyCorrect++
				}
			case breakBucket:
				lateTotal++
				if t.Result == models.TrialResultCorrect {
					lateCorrect++
				}
			}
		}
	}

	return roundPct(earlyCorrect, earlyTotal), roundPct(lateCorrect, lateTotal)
}

// computeTimingByProgram aggregates per-trial durations per program,
// ordered slowest first.
func computeTimingByProgram(trials []models.Trial, programs []models.Program) []models.ProgramTiming {
	programsByID := make(map[string]models.Program, len(programs))
	for _, p := range programs {
		programsByID[p.ID] = p
	}

	type agg struct {
		totalSec float64
		minSec   float64
		count    int
	}
	byProgram := make(map[string]*agg)

	for _, t := range trials {
		if t.DurationMs == nil {
			continue
		}
		// Skip trials whose program is gone from the store.
		if _, ok := programsByID[t.ProgramID]; !ok {
			continue
		}
		sec := float64(*t.DurationMs) / 1000
		a, ok := byProgram[t.ProgramID]
		if !ok {
			a = &agg{minSec: sec}
			byProgram[t.ProgramID] = a
		}
		a.totalSec += sec
		if sec < a.minSec {
			a.minSec = sec
		}
		a.count++
	}

	timings := make([]models.ProgramTiming, 0, len(byProgram))
	for programID, a := range byProgram {
		program := programsByID[programID]
		timings = append(timings, models.ProgramTiming{
			ProgramID:      programID,
			ProgramName:    program.Name,
			Category:       program.Category,
			AvgDurationSec: math.Round(10*a.totalSec/float64(a.count)) / 10,
			MinDurationSec: a.minSec,
			TotalTrials:    a.count,
		})
	}

	sort.Slice(timings, func(i, j int) bool {
		if timings[i].AvgDurationSec != timings[j].AvgDurationSec {
			return timings[i].AvgDurationSec > timings[j].AvgDurationSec
		}
		return timings[i].ProgramName < timings[j].ProgramName
	})

	return timings
}

// analyzeTiming emits the fatigue and timing insights of a run.
func analyzeTiming(snap *snapshot, now time.Time) []models.Insight {
	var insights []models.Insight

	windowStart := now.AddDate(0, 0, -DefaultWindowDays)
	trials := trialsSince(snap.trials, windowStart)
	analytics := computeTimingAnalytics(trials)

	if analytics.BestPerformanceHour != nil {
		hour := *analytics.BestPerformanceHour
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryPeakHour, ""),
			Type:        models.InsightInfo,
			Priority:    models.PriorityLow,
			Category:    models.CategoryPeakHour,
			Title:       "Peak performance time",
			Description: fmt.Sprintf("Accuracy is highest around %s (%d%%).", formatHour(hour), analytics.BestPerformanceHourAccuracy),
			Suggestion:  fmt.Sprintf("Consider scheduling demanding programs around %s.", formatHour(hour)),
			Metrics: &models.InsightMetrics{Temporal: &models.TemporalMetrics{
				Bucket:       hour,
				BucketLabel:  formatHour(hour),
				BestAccuracy: analytics.BestPerformanceHourAccuracy,
			}},
			Timestamp: now,
		})
	}

	switch analytics.PerformanceTrend {
	case models.TrendImproving:
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryPerformanceTrend, ""),
			Type:        models.InsightSuccess,
			Priority:    models.PriorityLow,
			Category:    models.CategoryPerformanceTrend,
			Title:       "Session performance improving",
			Description: "Overall session accuracy has been trending up recently.",
			Timestamp:   now,
		})
	case models.TrendDeclining:
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryPerformanceTrend, ""),
			Type:        models.InsightWarning,
			Priority:    models.PriorityHigh,
			Category:    models.CategoryPerformanceTrend,
			Title:       "Session performance declining",
			Description: "Overall session accuracy has been trending down recently.",
			Suggestion:  "Review recent sessions for changes in setting, timing, or prompting.",
			Timestamp:   now,
		})
	}

	switch analytics.DurationTrend {
	case models.TrendFaster:
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryDurationTrend, ""),
			Type:        models.InsightSuccess,
			Priority:    models.PriorityLow,
			Category:    models.CategoryDurationTrend,
			Title:       "Trials getting faster",
			Description: "Average trial duration has been decreasing; responses are speeding up.",
			Timestamp:   now,
		})
	case models.TrendSlower:
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryDurationTrend, ""),
			Type:        models.InsightWarning,
			Priority:    models.PriorityMedium,
			Category:    models.CategoryDurationTrend,
			Title:       "Trials getting slower",
			Description: "Average trial duration has been increasing.",
			Suggestion:  "Slowing responses can signal frustration or difficulty; consider easier targets or more breaks.",
			Timestamp:   now,
		})
	}

	if analytics.SuggestedFatigueBreakAt != nil {
		breakAt := *analytics.SuggestedFatigueBreakAt
		early, late := fatigueBucketAccuracies(trials, breakAt)
		insights = append(insights, models.Insight{
			ID:          insightID(models.CategoryFatigueBreak, ""),
			Type:        models.InsightSuggestion,
			Priority:    models.PriorityHigh,
			Category:    models.CategoryFatigueBreak,
			Title:       "Fatigue point detected",
			Description: fmt.Sprintf("Accuracy drops from %d%% to %d%% after about %d trials in a session.", early, late, breakAt),
			Suggestion:  fmt.Sprintf("Plan a short break after roughly %d trials.", breakAt),
			Metrics: &models.InsightMetrics{Fatigue: &models.FatigueMetrics{
				BreakAfterTrials: breakAt,
				EarlyAccuracy:    early,
				LateAccuracy:     late,
			}},
			Timestamp: now,
		})
	}

	insights = append(insights, analyzeProgramPace(snap, trials, now)...)

	return insights
}

// analyzeProgramPace compares the slowest and fastest programs by average
// trial duration.
func analyzeProgramPace(snap *snapshot, trials []models.Trial, now time.Time) []models.Insight {
	var insights []models.Insight

	timings := computeTimingByProgram(trials, snap.programs)

	// Slowest first in the ordering; find qualifying entries.
	var slowest, fastest *models.ProgramTiming
	for i := range timings {
		if timings[i].TotalTrials < MinTrialsForTiming {
			continue
		}
		if slowest == nil {
			slowest = &timings[i]
		}
		fastest = &timings[i]
	}

	if slowest != nil && slowest.AvgDurationSec > SlowProgramThresholdSec {
		insights = append(insights, models.Insight{
			ID:               insightID(models.CategorySlowestProgram, slowest.ProgramID),
			Type:             models.InsightInfo,
			Priority:         models.PriorityLow,
			Category:         models.CategorySlowestProgram,
			Title:            fmt.Sprintf("%s has the longest trials", slowest.ProgramName),
			Description:      fmt.Sprintf("Trials in %s average %.0f seconds, the longest of any program.", slowest.ProgramName, slowest.AvgDurationSec),
			RelatedProgramID: &slowest.ProgramID,
			Metrics: &models.InsightMetrics{Timing: &models.TimingMetrics{
				AvgDurationSec: slowest.AvgDurationSec,
				TotalTrials:    slowest.TotalTrials,
			}},
			Timestamp: now,
		})
	}

	if fastest != nil && slowest != nil && fastest.ProgramID != slowest.ProgramID {
		insights = append(insights, models.Insight{
			ID:               insightID(models.CategoryFastestProgram, fastest.ProgramID),
			Type:             models.InsightSuccess,
			Priority:         models.PriorityLow,
			Category:         models.CategoryFastestProgram,
			Title:            fmt.Sprintf("%s moves quickly", fastest.ProgramName),
			Description:      fmt.Sprintf("Trials in %s average just %.0f seconds, showing fluent responding.", fastest.ProgramName, fastest.AvgDurationSec),
			RelatedProgramID: &fastest.ProgramID,
			Metrics: &models.InsightMetrics{Timing: &models.TimingMetrics{
				AvgDurationSec: fastest.AvgDurationSec,
				TotalTrials:    fastest.TotalTrials,
			}},
			Timestamp: now,
		})
	}

	return insights
}
