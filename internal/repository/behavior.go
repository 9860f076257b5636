package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type behaviorRepository struct {
	client *supabase.Client
}

// NewBehaviorRepository creates a new behavior repository backed by Supabase
func NewBehaviorRepository(client *supabase.Client) BehaviorRepository {
	return &behaviorRepository{client: client}
}

func (r *behaviorRepository) List(ctx context.Context) ([]models.Behavior, error) {
	body, err := r.client.Query("behaviors", map[string]string{
		"select": "*",
		"order":  "name.asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list behaviors: %w", err)
	}

	var behaviors []models.Behavior
	if err := json.Unmarshal(body, &behaviors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal behaviors: %w", err)
	}

	return behaviors, nil
}

func (r *behaviorRepository) ListRecords(ctx context.Context, filter BehaviorRecordFilter) ([]models.BehaviorRecord, error) {
	query := map[string]string{
		"select": "*",
		"order":  "timestamp.asc",
	}

	if filter.BehaviorID != "" {
		query["behavior_id"] = "eq." + filter.BehaviorID
	}
	if filter.Since != nil {
		query["timestamp"] = "gte." + filter.Since.UTC().Format(time.RFC3339)
	}

	body, err := r.client.Query("behavior_records", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list behavior records: %w", err)
	}

	var records []models.BehaviorRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal behavior records: %w", err)
	}

	return records, nil
}
