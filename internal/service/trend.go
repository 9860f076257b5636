package service

import "github.com/bloomhq/bloom/backend/internal/models"

// trendMargin is the relative change between the two half-window means,
// measured against their midpoint, required before a series is labeled
// as moving rather than stable.
const trendMargin = 0.10

// trendLabels maps the raw direction of a series onto the label pair that
// is meaningful for it. "up" means the later half's mean is higher.
type trendLabels struct {
	up   models.Trend
	down models.Trend
}

var (
	accuracyTrendLabels    = trendLabels{up: models.TrendIncreasing, down: models.TrendDecreasing}
	frequencyTrendLabels   = trendLabels{up: models.TrendIncreasing, down: models.TrendDecreasing}
	performanceTrendLabels = trendLabels{up: models.TrendImproving, down: models.TrendDeclining}

	// For durations, a falling series means trials are getting faster.
	durationTrendLabels = trendLabels{up: models.TrendSlower, down: models.TrendFaster}
)

// classifyTrend splits an ordered-by-time series into an earlier and a
// later half, compares the half means, and labels the direction. Series
// too short to split meaningfully are stable.
func classifyTrend(series []float64, labels trendLabels) models.Trend {
	if len(series) < 2 {
		return models.TrendStable
	}

	mid := len(series) / 2
	earlier := mean(series[:mid])
	later := mean(series[mid:])

	// Measure the change against the midpoint of the two means so that
	// reversing a series exactly negates it and flips the label.
	base := (earlier + later) / 2
	if base == 0 {
		return models.TrendStable
	}

	change := (later - earlier) / base
	switch {
	case change > trendMargin:
		return labels.up
	case change < -trendMargin:
		return labels.down
	default:
		return models.TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
