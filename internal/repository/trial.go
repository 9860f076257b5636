package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type trialRepository struct {
	client *supabase.Client
}

// NewTrialRepository creates a new trial repository backed by Supabase
func NewTrialRepository(client *supabase.Client) TrialRepository {
	return &trialRepository{client: client}
}

func (r *trialRepository) List(ctx context.Context, filter TrialFilter) ([]models.Trial, error) {
	query := map[string]string{
		"select": "*",
		"order":  "timestamp.asc",
	}

	if filter.ProgramID != "" {
		query["program_id"] = "eq." + filter.ProgramID
	}
	if filter.SessionID != "" {
		query["session_id"] = "eq." + filter.SessionID
	}
	if filter.Since != nil {
		query["timestamp"] = "gte." + filter.Since.UTC().Format(time.RFC3339)
	}

	body, err := r.client.Query("trials", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}

	var trials []models.Trial
	if err := json.Unmarshal(body, &trials); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trials: %w", err)
	}

	return trials, nil
}
