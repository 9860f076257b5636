package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type checkinRepository struct {
	client    *supabase.Client
	patientID string
}

// NewCheckinRepository creates a new check-in repository backed by Supabase
func NewCheckinRepository(client *supabase.Client, patientID string) CheckinRepository {
	return &checkinRepository{client: client, patientID: patientID}
}

func (r *checkinRepository) List(ctx context.Context, since *time.Time) ([]models.DailyCheckin, error) {
	query := map[string]string{
		"select":     "*",
		"patient_id": "eq." + r.patientID,
		"order":      "date.asc",
	}
	if since != nil {
		query["date"] = "gte." + since.UTC().Format("2006-01-02")
	}

	body, err := r.client.Query("daily_checkins", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily checkins: %w", err)
	}

	var checkins []models.DailyCheckin
	if err := json.Unmarshal(body, &checkins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily checkins: %w", err)
	}

	return checkins, nil
}
