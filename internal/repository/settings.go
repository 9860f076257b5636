package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type settingsRepository struct {
	client    *supabase.Client
	patientID string
}

// NewSettingsRepository creates a new settings repository backed by Supabase
func NewSettingsRepository(client *supabase.Client, patientID string) SettingsRepository {
	return &settingsRepository{client: client, patientID: patientID}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	body, err := r.client.Query("settings", map[string]string{
		"select":     "*",
		"patient_id": "eq." + r.patientID,
		"limit":      "1",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var rows []models.Settings
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if len(rows) == 0 {
		// No row yet; callers see empty settings, not an error.
		return &models.Settings{PatientID: r.patientID}, nil
	}

	return &rows[0], nil
}

func (r *settingsRepository) Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error) {
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Merge time goals into the existing blob rather than replacing it,
	// so goals for other programs survive a partial update.
	merged := current.TimeGoals
	if merged == nil {
		merged = make(map[string]models.TimeGoal, len(patch.TimeGoals))
	}
	for programID, goal := range patch.TimeGoals {
		merged[programID] = goal
	}

	data := map[string]interface{}{
		"patient_id": r.patientID,
		"time_goals": merged,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	body, err := r.client.Upsert("settings", "patient_id", data)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	var rows []models.Settings
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no settings row returned")
	}

	return &rows[0], nil
}
