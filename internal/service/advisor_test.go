package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

func TestCheckSessionFrequency_LowFrequency(t *testing.T) {
	m := newMockStore()
	// 3 completed sessions in two weeks: 1.5 per week, under the floor.
	for i := 0; i < 3; i++ {
		m.addCompletedSession(fmt.Sprintf("s%d", i), testNow.AddDate(0, 0, -i*4))
	}

	insights := analyzeOptimization(buildSnapshot(m), testNow)
	freq := findInsight(insights, models.CategorySessionFrequency)
	if freq == nil {
		t.Fatal("expected a session frequency suggestion at 1.5 per week")
	}
	if freq.Metrics.Frequency == nil || freq.Metrics.Frequency.SessionsPerWeek != 1.5 {
		t.Errorf("expected 1.5 sessions per week, got %+v", freq.Metrics.Frequency)
	}
}

func TestCheckSessionFrequency_EnoughSessions(t *testing.T) {
	m := newMockStore()
	for i := 0; i < 7; i++ {
		m.addCompletedSession(fmt.Sprintf("s%d", i), testNow.AddDate(0, 0, -i*2))
	}

	insights := analyzeOptimization(buildSnapshot(m), testNow)
	if found := findInsight(insights, models.CategorySessionFrequency); found != nil {
		t.Errorf("expected no frequency suggestion at 3.5 per week, got %+v", found)
	}
}

func TestCheckNeglectedPrograms(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Neglected", 80)
	m.addProgram("p2", "Fresh", 80)
	m.addProgram("p3", "Untouched", 80)
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -10), 5, 3)
	m.addTrials("p2", "s2", testNow.AddDate(0, 0, -1), 5, 3)

	insights := analyzeOptimization(buildSnapshot(m), testNow)

	if n := countInsights(insights, models.CategoryNeglectedProgram); n != 1 {
		t.Fatalf("expected exactly 1 neglect insight, got %d", n)
	}
	neglect := findInsight(insights, models.CategoryNeglectedProgram)
	if neglect.RelatedProgramID == nil || *neglect.RelatedProgramID != "p1" {
		t.Errorf("expected p1 flagged as neglected, got %v", neglect.RelatedProgramID)
	}
	// p3 was never practiced: silently skipped, not flagged.
}

func TestCheckNeglectedPrograms_FractionalDayBoundary(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Stale", 80)
	m.addProgram("p2", "Recent", 80)
	// 7.5 days idle is older than the threshold even though the whole-day
	// count still reads 7; 6.5 days is not.
	m.addTrials("p1", "s1", testNow.Add(-180*time.Hour), 1, 1)
	m.addTrials("p2", "s2", testNow.Add(-156*time.Hour), 1, 1)

	insights := analyzeOptimization(buildSnapshot(m), testNow)

	if n := countInsights(insights, models.CategoryNeglectedProgram); n != 1 {
		t.Fatalf("expected exactly 1 neglect insight, got %d", n)
	}
	neglect := findInsight(insights, models.CategoryNeglectedProgram)
	if neglect.RelatedProgramID == nil || *neglect.RelatedProgramID != "p1" {
		t.Errorf("expected p1 flagged, got %v", neglect.RelatedProgramID)
	}
	if got := neglect.Metrics.Neglect.DaysSinceLastTrial; got != 7 {
		t.Errorf("expected a displayed day count of 7, got %d", got)
	}
}

func TestCheckReinforcerDiversity(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)
	// 25 trials this week with a single reinforcer.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -2), 25, 20)
	for i := range m.trials {
		m.trials[i].Reinforcer = strPtr("stickers")
	}

	insights := analyzeOptimization(buildSnapshot(m), testNow)
	variety := findInsight(insights, models.CategoryReinforcerVariety)
	if variety == nil {
		t.Fatal("expected a reinforcer variety suggestion")
	}
	if variety.Metrics.Reinforcer == nil || variety.Metrics.Reinforcer.DistinctReinforcers != 1 {
		t.Errorf("expected 1 distinct reinforcer, got %+v", variety.Metrics.Reinforcer)
	}
}

func TestCheckReinforcerDiversity_BelowTrialFloor(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)
	// Only 10 trials this week: too few to judge variety.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -2), 10, 8)
	for i := range m.trials {
		m.trials[i].Reinforcer = strPtr("stickers")
	}

	insights := analyzeOptimization(buildSnapshot(m), testNow)
	if found := findInsight(insights, models.CategoryReinforcerVariety); found != nil {
		t.Errorf("expected no variety suggestion below the trial floor, got %+v", found)
	}
}

// buildSnapshot loads a snapshot through the real service path.
func buildSnapshot(m *mockStore) *snapshot {
	svc := newTestIntelligence(m)
	snap, err := svc.loadSnapshot(context.Background(), testNow)
	if err != nil {
		panic(err)
	}
	return snap
}
