package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// CompileReport builds a date-ranged progress summary. Both range bounds
// are inclusive and compared at day granularity.
func (s *intelligenceService) CompileReport(ctx context.Context, start, end time.Time) (*models.Report, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", dayKey(end), dayKey(start))
	}

	now := s.now()
	snap, err := s.loadSnapshot(ctx, now)
	if err != nil {
		return nil, err
	}

	settings, err := s.store.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	report := compileReport(snap, start, end, now)
	report.PatientID = settings.PatientID
	return report, nil
}

func compileReport(snap *snapshot, start, end time.Time, now time.Time) *models.Report {
	report := &models.Report{
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: now,
	}

	var rangeTrials []models.Trial
	for _, t := range snap.trials {
		if inRange(t.Timestamp, start, end) {
			rangeTrials = append(rangeTrials, t)
		}
	}

	correct := 0
	for _, t := range rangeTrials {
		if t.Result == models.TrialResultCorrect {
			correct++
		}
	}
	report.TotalTrials = len(rangeTrials)
	report.OverallAccuracy = roundPct(correct, len(rangeTrials))

	for _, sess := range snap.sessions {
		if !inRange(sess.StartTime, start, end) {
			continue
		}
		report.TotalSessions++
		if sess.Status == models.SessionCompleted {
			report.CompletedSessions++
		}
	}

	report.Programs = programReports(snap.programs, rangeTrials)
	report.Behaviors = behaviorReports(snap, start, end, now)
	report.TopInsights = topInsights(snap, now)

	return report
}

// inRange reports whether ts falls within [start, end] at day granularity.
func inRange(ts, start, end time.Time) bool {
	day := dayKey(ts)
	return day >= dayKey(start) && day <= dayKey(end)
}

// programReports covers every program with at least one trial in range.
func programReports(programs []models.Program, rangeTrials []models.Trial) []models.ProgramReport {
	var reports []models.ProgramReport
	for _, program := range programs {
		stats := computeTrialStats(rangeTrials, program.ID, 0)
		if stats.Total == 0 {
			continue
		}
		reports = append(reports, models.ProgramReport{
			ProgramID:      program.ID,
			Name:           program.Name,
			Category:       program.Category,
			Trials:         stats.Total,
			Accuracy:       stats.Accuracy,
			TargetAccuracy: program.TargetAccuracy,
			MetTarget:      stats.Accuracy >= program.TargetAccuracy,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Trials != reports[j].Trials {
			return reports[i].Trials > reports[j].Trials
		}
		return reports[i].Name < reports[j].Name
	})
	return reports
}

// behaviorReports summarizes in-range occurrences per behavior. The trend
// reflects the trailing window up to now, not the report range, so a
// historical report still shows where the behavior is heading today.
func behaviorReports(snap *snapshot, start, end time.Time, now time.Time) []models.BehaviorReport {
	var reports []models.BehaviorReport
	for _, behavior := range snap.behaviors {
		records := 0
		total := 0
		var trendRecords []models.BehaviorRecord
		for _, r := range snap.behaviorRecords {
			if r.BehaviorID != behavior.ID {
				continue
			}
			if inRange(r.Timestamp, start, end) {
				records++
				total += r.Occurrences()
			}
			trendRecords = append(trendRecords, r)
		}
		if records == 0 {
			continue
		}

		stats := computeBehaviorStats(trendRecords, behavior.ID, DefaultWindowDays)
		reports = append(reports, models.BehaviorReport{
			BehaviorID:  behavior.ID,
			Name:        behavior.Name,
			Type:        behavior.Type,
			Occurrences: records,
			TotalCount:  total,
			Trend:       stats.Trend,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TotalCount != reports[j].TotalCount {
			return reports[i].TotalCount > reports[j].TotalCount
		}
		return reports[i].Name < reports[j].Name
	})
	return reports
}

func topInsights(snap *snapshot, now time.Time) []models.Insight {
	insights := computeInsights(snap, now)
	if len(insights) > MaxReportInsights {
		insights = insights[:MaxReportInsights]
	}
	return insights
}
