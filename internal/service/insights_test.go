package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/bloomhq/bloom/backend/internal/models"
)

func TestComputeInsights_MasteryWithoutWarning(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)
	// 20 trials at exactly 80% accuracy over the last week.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -3), 20, 16)

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	mastery := findInsight(resp.Insights, models.CategoryProgramMastery)
	if mastery == nil {
		t.Fatal("expected a mastery insight at 80%% against an 80%% target")
	}
	if mastery.Type != models.InsightSuccess {
		t.Errorf("expected success type, got %s", mastery.Type)
	}
	if mastery.Metrics == nil || mastery.Metrics.Accuracy == nil || mastery.Metrics.Accuracy.Accuracy != 80 {
		t.Errorf("expected accuracy metrics at 80, got %+v", mastery.Metrics)
	}

	if found := findInsight(resp.Insights, models.CategoryProgramDifficult); found != nil {
		t.Errorf("a program at target must not also get a difficulty warning: %+v", found)
	}
}

func TestComputeInsights_DifficultyWarning(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Requesting", 80)
	// 12 trials, 5 correct: 42%, below the 50% threshold, above the
	// 10-trial warning floor.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -2), 12, 5)

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	warning := findInsight(resp.Insights, models.CategoryProgramDifficult)
	if warning == nil {
		t.Fatal("expected a difficulty warning at 42%% over 12 trials")
	}
	if warning.Priority != models.PriorityHigh {
		t.Errorf("expected high priority, got %d", warning.Priority)
	}
	if warning.RelatedProgramID == nil || *warning.RelatedProgramID != "p1" {
		t.Errorf("expected related program p1, got %v", warning.RelatedProgramID)
	}
}

func TestComputeInsights_NoWarningBelowSampleFloor(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Requesting", 80)
	// 8 trials at 25%: struggling, but under the 10-trial warning floor.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -2), 8, 2)

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	if found := findInsight(resp.Insights, models.CategoryProgramDifficult); found != nil {
		t.Errorf("expected silence below the warning sample floor, got %+v", found)
	}
}

func TestComputeInsights_SleepCorrelation(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)

	// 4 well-rested days at ~83% and 3 short-sleep days at 50%.
	for i := 0; i < 4; i++ {
		day := testNow.AddDate(0, 0, -(i + 1))
		m.addTrials("p1", "s-good", day, 6, 5)
		m.checkins = append(m.checkins, models.DailyCheckin{
			PatientID: "patient-1", Date: day, SleepHours: 9, Mood: models.MoodNeutral, Health: models.HealthNormal,
		})
	}
	for i := 0; i < 3; i++ {
		day := testNow.AddDate(0, 0, -(i + 10))
		m.addTrials("p1", "s-poor", day, 6, 3)
		m.checkins = append(m.checkins, models.DailyCheckin{
			PatientID: "patient-1", Date: day, SleepHours: 5, Mood: models.MoodNeutral, Health: models.HealthNormal,
		})
	}

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	sleep := findInsight(resp.Insights, models.CategorySleepCorrelation)
	if sleep == nil {
		t.Fatal("expected a sleep correlation insight")
	}
	corr := sleep.Metrics.Correlation
	if corr == nil {
		t.Fatal("expected correlation metrics")
	}
	if corr.GoodAccuracy != 83 || corr.PoorAccuracy != 50 {
		t.Errorf("expected 83/50 split, got %d/%d", corr.GoodAccuracy, corr.PoorAccuracy)
	}
	if corr.Diff != 33 {
		t.Errorf("expected 33 point difference, got %d", corr.Diff)
	}
}

func TestComputeInsights_CorrelationSuppressedBelowDayFloor(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)

	// Huge gap, but only 2 short-sleep days: below the 3-day floor.
	for i := 0; i < 4; i++ {
		day := testNow.AddDate(0, 0, -(i + 1))
		m.addTrials("p1", "s-good", day, 6, 6)
		m.checkins = append(m.checkins, models.DailyCheckin{
			PatientID: "patient-1", Date: day, SleepHours: 9, Mood: models.MoodNeutral, Health: models.HealthNormal,
		})
	}
	for i := 0; i < 2; i++ {
		day := testNow.AddDate(0, 0, -(i + 10))
		m.addTrials("p1", "s-poor", day, 6, 0)
		m.checkins = append(m.checkins, models.DailyCheckin{
			PatientID: "patient-1", Date: day, SleepHours: 4, Mood: models.MoodNeutral, Health: models.HealthNormal,
		})
	}

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	if found := findInsight(resp.Insights, models.CategorySleepCorrelation); found != nil {
		t.Errorf("expected suppression below the poor-day floor, got %+v", found)
	}
}

func TestComputeInsights_TrialMilestoneWindow(t *testing.T) {
	cases := []struct {
		total  int
		expect bool
	}{
		{99, false},
		{100, true},
		{149, true},
		{150, false},
	}

	for _, c := range cases {
		m := newMockStore()
		m.addProgram("p1", "Matching", 80)
		remaining := c.total
		day := 0
		for remaining > 0 {
			n := 20
			if n > remaining {
				n = remaining
			}
			m.addTrials("p1", "", testNow.AddDate(0, 0, -day-1), n, n/2)
			remaining -= n
			day++
		}

		svc := newTestIntelligence(m)
		resp, err := svc.ComputeInsights(context.Background())
		if err != nil {
			t.Fatalf("ComputeInsights failed: %v", err)
		}

		got := findInsight(resp.Insights, models.CategoryTrialMilestone) != nil
		if got != c.expect {
			t.Errorf("total %d: milestone fired=%v, want %v", c.total, got, c.expect)
		}
	}
}

func TestComputeInsights_SessionStreak(t *testing.T) {
	m := newMockStore()
	for i := 0; i < 5; i++ {
		m.addCompletedSession(fmt.Sprintf("s%d", i), testNow.AddDate(0, 0, -i))
	}

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	streak := findInsight(resp.Insights, models.CategoryStreak)
	if streak == nil {
		t.Fatal("expected a streak celebration at 5 consecutive days")
	}
	if streak.Metrics.Streak == nil || streak.Metrics.Streak.ConsecutiveDays != 5 {
		t.Errorf("expected a 5-day streak, got %+v", streak.Metrics.Streak)
	}
}

func TestComputeInsights_BrokenStreak(t *testing.T) {
	m := newMockStore()
	// Sessions today and yesterday, a gap, then more sessions.
	m.addCompletedSession("s1", testNow)
	m.addCompletedSession("s2", testNow.AddDate(0, 0, -1))
	m.addCompletedSession("s3", testNow.AddDate(0, 0, -3))
	m.addCompletedSession("s4", testNow.AddDate(0, 0, -4))
	m.addCompletedSession("s5", testNow.AddDate(0, 0, -5))

	svc := newTestIntelligence(m)
	resp, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	if found := findInsight(resp.Insights, models.CategoryStreak); found != nil {
		t.Errorf("a broken chain must not celebrate a streak, got %+v", found)
	}
}

func TestComputeInsights_StableOrder(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)
	m.addProgram("p2", "Requesting", 80)
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -2), 20, 16)
	m.addTrials("p2", "s2", testNow.AddDate(0, 0, -2), 12, 5)

	svc := newTestIntelligence(m)
	first, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}

	if !sort.SliceIsSorted(first.Insights, func(i, j int) bool {
		return first.Insights[i].Priority < first.Insights[j].Priority
	}) {
		t.Error("insights are not ordered by priority")
	}

	second, err := svc.ComputeInsights(context.Background())
	if err != nil {
		t.Fatalf("ComputeInsights failed: %v", err)
	}
	if len(first.Insights) != len(second.Insights) {
		t.Fatalf("run sizes differ: %d vs %d", len(first.Insights), len(second.Insights))
	}
	for i := range first.Insights {
		if first.Insights[i].ID != second.Insights[i].ID {
			t.Errorf("position %d changed between runs: %s vs %s", i, first.Insights[i].ID, second.Insights[i].ID)
		}
	}
}

func TestInsightID_Deterministic(t *testing.T) {
	a := insightID(models.CategoryProgramMastery, "p1")
	b := insightID(models.CategoryProgramMastery, "p1")
	if a != b {
		t.Errorf("same category and entity must yield the same ID: %s vs %s", a, b)
	}

	c := insightID(models.CategoryProgramMastery, "p2")
	if a == c {
		t.Error("different entities must yield different IDs")
	}

	d := insightID(models.CategoryProgramDifficult, "p1")
	if a == d {
		t.Error("different categories must yield different IDs")
	}
}
