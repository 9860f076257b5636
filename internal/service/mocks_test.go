package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/internal/repository"
)

// mockStore is an in-memory implementation of every repository interface,
// backed by plain slices.
type mockStore struct {
	programs        []models.Program
	trials          []models.Trial
	sessions        []models.Session
	behaviors       []models.Behavior
	behaviorRecords []models.BehaviorRecord
	checkins        []models.DailyCheckin
	settings        models.Settings

	settingsUpdateCalls int
	settingsUpdateErr   error
}

func newMockStore() *mockStore {
	return &mockStore{settings: models.Settings{PatientID: "patient-1"}}
}

func (m *mockStore) store() *repository.Store {
	return &repository.Store{
		Programs:  (*mockProgramRepo)(m),
		Trials:    (*mockTrialRepo)(m),
		Sessions:  (*mockSessionRepo)(m),
		Behaviors: (*mockBehaviorRepo)(m),
		Checkins:  (*mockCheckinRepo)(m),
		Settings:  (*mockSettingsRepo)(m),
	}
}

type mockProgramRepo mockStore

func (m *mockProgramRepo) List(ctx context.Context, status models.ProgramStatus) ([]models.Program, error) {
	var out []models.Program
	for _, p := range m.programs {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type mockTrialRepo mockStore

func (m *mockTrialRepo) List(ctx context.Context, filter repository.TrialFilter) ([]models.Trial, error) {
	var out []models.Trial
	for _, t := range m.trials {
		if filter.ProgramID != "" && t.ProgramID != filter.ProgramID {
			continue
		}
		if filter.SessionID != "" && t.SessionID != filter.SessionID {
			continue
		}
		if filter.Since != nil && t.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type mockSessionRepo mockStore

func (m *mockSessionRepo) List(ctx context.Context, filter repository.SessionFilter) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Since != nil && s.StartTime.Before(*filter.Since) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type mockBehaviorRepo mockStore

func (m *mockBehaviorRepo) List(ctx context.Context) ([]models.Behavior, error) {
	return m.behaviors, nil
}

func (m *mockBehaviorRepo) ListRecords(ctx context.Context, filter repository.BehaviorRecordFilter) ([]models.BehaviorRecord, error) {
	var out []models.BehaviorRecord
	for _, r := range m.behaviorRecords {
		if filter.BehaviorID != "" && r.BehaviorID != filter.BehaviorID {
			continue
		}
		if filter.Since != nil && r.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type mockCheckinRepo mockStore

func (m *mockCheckinRepo) List(ctx context.Context, since *time.Time) ([]models.DailyCheckin, error) {
	var out []models.DailyCheckin
	for _, c := range m.checkins {
		if since != nil && c.Date.Before(*since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type mockSettingsRepo mockStore

func (m *mockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsRepo) Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error) {
	m.settingsUpdateCalls++
	if m.settingsUpdateErr != nil {
		return nil, m.settingsUpdateErr
	}
	if patch.TimeGoals != nil {
		if m.settings.TimeGoals == nil {
			m.settings.TimeGoals = make(map[string]models.TimeGoal)
		}
		for id, goal := range patch.TimeGoals {
			m.settings.TimeGoals[id] = goal
		}
	}
	s := m.settings
	return &s, nil
}

// ============================================================================
// Fixture helpers
// ============================================================================

// testNow is the fixed clock every test runs against.
var testNow = time.Date(2025, 6, 16, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestIntelligence(m *mockStore) *intelligenceService {
	return &intelligenceService{store: m.store(), now: fixedClock}
}

func newTestAnalytics(m *mockStore) *analyticsService {
	return &analyticsService{store: m.store(), now: fixedClock}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// addTrials appends n trials for a program, correct of them successful,
// starting at ts and spaced one minute apart.
func (m *mockStore) addTrials(programID, sessionID string, ts time.Time, n, correct int) {
	for i := 0; i < n; i++ {
		result := models.TrialResultIncorrect
		if i < correct {
			result = models.TrialResultCorrect
		}
		m.trials = append(m.trials, models.Trial{
			ID:          fmt.Sprintf("trial-%s-%d-%d", programID, ts.Unix(), i),
			SessionID:   sessionID,
			ProgramID:   programID,
			Result:      result,
			PromptLevel: models.PromptVerbal,
			Timestamp:   ts.Add(time.Duration(i) * time.Minute),
		})
	}
}

func (m *mockStore) addProgram(id, name string, target int) {
	m.programs = append(m.programs, models.Program{
		ID:             id,
		Name:           name,
		Category:       "communication",
		TargetAccuracy: target,
		Status:         models.ProgramActive,
	})
}

func (m *mockStore) addCompletedSession(id string, start time.Time) {
	m.sessions = append(m.sessions, models.Session{
		ID:        id,
		PatientID: "patient-1",
		StartTime: start,
		Status:    models.SessionCompleted,
	})
}

func findInsight(insights []models.Insight, category models.InsightCategory) *models.Insight {
	for i := range insights {
		if insights[i].Category == category {
			return &insights[i]
		}
	}
	return nil
}

func countInsights(insights []models.Insight, category models.InsightCategory) int {
	n := 0
	for _, in := range insights {
		if in.Category == category {
			n++
		}
	}
	return n
}
