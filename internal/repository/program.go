package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bloomhq/bloom/backend/internal/models"
	"github.com/bloomhq/bloom/backend/pkg/supabase"
)

type programRepository struct {
	client *supabase.Client
}

// NewProgramRepository creates a new program repository backed by Supabase
func NewProgramRepository(client *supabase.Client) ProgramRepository {
	return &programRepository{client: client}
}

func (r *programRepository) List(ctx context.Context, status models.ProgramStatus) ([]models.Program, error) {
	query := map[string]string{
		"select": "*",
		"order":  "name.asc",
	}
	if status != "" {
		query["status"] = "eq." + string(status)
	}

	body, err := r.client.Query("programs", query)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	var programs []models.Program
	if err := json.Unmarshal(body, &programs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal programs: %w", err)
	}

	return programs, nil
}
