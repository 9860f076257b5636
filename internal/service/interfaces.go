// Package service holds the analytics and insight engine. Every derived
// value except time goals is recomputed from the raw records on each call.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/bloomhq/bloom/backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// AnalyticsService exposes on-demand windowed aggregates.
type AnalyticsService interface {
	GetTrialStats(ctx context.Context, programID string, windowDays int) (*models.TrialStats, error)
	GetBehaviorStats(ctx context.Context, behaviorID string, windowDays int) (*models.BehaviorStats, error)
	GetProgramProgress(ctx context.Context, programID string) (*models.ProgramProgress, error)
	GetTimingAnalytics(ctx context.Context, programID string, windowDays int) (*models.TimingAnalytics, error)
	GetTimingByProgram(ctx context.Context, windowDays int) ([]models.ProgramTiming, error)
}

// IntelligenceService runs the insight analyzers over the full record
// history and derives recommendations and reports from them.
type IntelligenceService interface {
	ComputeInsights(ctx context.Context) (*models.InsightsResponse, error)
	ComputeRecommendations(ctx context.Context) ([]models.Recommendation, error)
	CompileReport(ctx context.Context, start, end time.Time) (*models.Report, error)
}
