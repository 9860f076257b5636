package service

import (
	"context"
	"testing"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

func TestCompileReport(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)
	m.addProgram("p2", "Requesting", 80)

	start := testNow.AddDate(0, 0, -7)
	end := testNow.AddDate(0, 0, -1)

	// In range: 10 trials at 80% for p1, 5 at 40% for p2.
	m.addTrials("p1", "s1", testNow.AddDate(0, 0, -3), 10, 8)
	m.addTrials("p2", "s1", testNow.AddDate(0, 0, -3), 5, 2)
	// Out of range.
	m.addTrials("p1", "s0", testNow.AddDate(0, 0, -20), 10, 1)

	m.addCompletedSession("s1", testNow.AddDate(0, 0, -3))
	m.addCompletedSession("s0", testNow.AddDate(0, 0, -20))
	m.sessions = append(m.sessions, models.Session{
		ID: "s2", PatientID: "patient-1", StartTime: testNow.AddDate(0, 0, -2), Status: models.SessionInProgress,
	})

	svc := newTestIntelligence(m)
	report, err := svc.CompileReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("CompileReport failed: %v", err)
	}

	if report.PatientID != "patient-1" {
		t.Errorf("expected patient-1, got %s", report.PatientID)
	}
	if report.TotalTrials != 15 {
		t.Errorf("expected 15 in-range trials, got %d", report.TotalTrials)
	}
	// 10 of 15 correct.
	if report.OverallAccuracy != 67 {
		t.Errorf("expected 67%% overall accuracy, got %d", report.OverallAccuracy)
	}
	if report.TotalSessions != 2 || report.CompletedSessions != 1 {
		t.Errorf("expected 2 sessions / 1 completed, got %d/%d", report.TotalSessions, report.CompletedSessions)
	}

	if len(report.Programs) != 2 {
		t.Fatalf("expected 2 program sections, got %d", len(report.Programs))
	}
	// Most trials first.
	if report.Programs[0].ProgramID != "p1" {
		t.Errorf("expected p1 first, got %s", report.Programs[0].ProgramID)
	}
	if !report.Programs[0].MetTarget {
		t.Error("expected p1 to meet its target in range")
	}
	if report.Programs[1].MetTarget {
		t.Error("expected p2 to miss its target in range")
	}

	if report.GeneratedAt != testNow {
		t.Errorf("expected GeneratedAt %v, got %v", testNow, report.GeneratedAt)
	}
}

func TestCompileReport_InclusiveBounds(t *testing.T) {
	m := newMockStore()
	m.addProgram("p1", "Matching", 80)

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	// One trial on each boundary day and one just outside each.
	m.addTrials("p1", "s1", time.Date(2025, 6, 9, 23, 0, 0, 0, time.UTC), 1, 1)
	m.addTrials("p1", "s1", time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC), 1, 1)
	m.addTrials("p1", "s1", time.Date(2025, 6, 12, 23, 0, 0, 0, time.UTC), 1, 1)
	m.addTrials("p1", "s1", time.Date(2025, 6, 13, 1, 0, 0, 0, time.UTC), 1, 1)

	svc := newTestIntelligence(m)
	report, err := svc.CompileReport(context.Background(), start, end)
	if err != nil {
		t.Fatalf("CompileReport failed: %v", err)
	}

	if report.TotalTrials != 2 {
		t.Errorf("expected both boundary days included and neighbors excluded, got %d trials", report.TotalTrials)
	}
}

func TestCompileReport_ReversedRange(t *testing.T) {
	m := newMockStore()
	svc := newTestIntelligence(m)

	_, err := svc.CompileReport(context.Background(), testNow, testNow.AddDate(0, 0, -7))
	if err == nil {
		t.Error("expected an error for a reversed range")
	}
}

func TestCompileReport_TopInsightsCapped(t *testing.T) {
	m := newMockStore()
	// Many struggling programs to generate plenty of insights.
	for i := 0; i < 15; i++ {
		id := string(rune('a' + i))
		m.addProgram(id, "Program "+id, 80)
		m.addTrials(id, "s"+id, testNow.AddDate(0, 0, -2), 12, 4)
	}

	svc := newTestIntelligence(m)
	report, err := svc.CompileReport(context.Background(), testNow.AddDate(0, 0, -7), testNow)
	if err != nil {
		t.Fatalf("CompileReport failed: %v", err)
	}

	if len(report.TopInsights) != MaxReportInsights {
		t.Errorf("expected insights capped at %d, got %d", MaxReportInsights, len(report.TopInsights))
	}
}

func TestCompileReport_BehaviorSection(t *testing.T) {
	m := newMockStore()
	m.behaviors = append(m.behaviors, models.Behavior{
		ID: "b1", Name: "Hand flapping", Type: models.BehaviorDecrease, Severity: models.SeverityMedium,
	})
	for i := 0; i < 4; i++ {
		m.behaviorRecords = append(m.behaviorRecords, models.BehaviorRecord{
			ID:         string(rune('r' + i)),
			BehaviorID: "b1",
			Timestamp:  testNow.AddDate(0, 0, -(i + 1)),
			Count:      intPtr(2),
		})
	}

	svc := newTestIntelligence(m)
	report, err := svc.CompileReport(context.Background(), testNow.AddDate(0, 0, -7), testNow)
	if err != nil {
		t.Fatalf("CompileReport failed: %v", err)
	}

	if len(report.Behaviors) != 1 {
		t.Fatalf("expected 1 behavior section, got %d", len(report.Behaviors))
	}
	b := report.Behaviors[0]
	if b.Occurrences != 4 || b.TotalCount != 8 {
		t.Errorf("expected 4 records / 8 occurrences, got %d/%d", b.Occurrences, b.TotalCount)
	}
}
