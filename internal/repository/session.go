package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type sessionRepository struct {
	client *supabase.Client
}

// NewSessionRepository creates a new session repository backed by Supabase
func NewSessionRepository(client *supabase.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	query := map[string]string{
		"select": "*",
		"order":  "start_time.asc",
	}

	if filter.Status != "" {
		query["status"] = "eq." + string(filter.Status)
	}
	if filter.Since != nil {
		query["start_time"] = "gte." + filter.Since.UTC().Format(time.RFC3339)
	}

	body, err := r.client.Query("sessions", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []models.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sessions: %w", err)
	}

	return sessions, nil
}
