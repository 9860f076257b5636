package service

import (
	"testing"

	"github.com/bloomhq/bloom/backend/internal/models"
)

func TestClassifyTrend_ShortSeriesIsStable(t *testing.T) {
	for _, series := range [][]float64{nil, {}, {50}} {
		if got := classifyTrend(series, accuracyTrendLabels); got != models.TrendStable {
			t.Errorf("series %v: expected stable, got %s", series, got)
		}
	}
}

func TestClassifyTrend_ConstantSeriesIsStable(t *testing.T) {
	series := []float64{70, 70, 70, 70, 70, 70}
	if got := classifyTrend(series, accuracyTrendLabels); got != models.TrendStable {
		t.Errorf("expected stable for constant series, got %s", got)
	}
}

func TestClassifyTrend_RisingSeries(t *testing.T) {
	series := []float64{40, 45, 50, 70, 75, 80}
	if got := classifyTrend(series, accuracyTrendLabels); got != models.TrendIncreasing {
		t.Errorf("expected increasing, got %s", got)
	}
}

func TestClassifyTrend_FallingSeries(t *testing.T) {
	series := []float64{80, 75, 70, 50, 45, 40}
	if got := classifyTrend(series, accuracyTrendLabels); got != models.TrendDecreasing {
		t.Errorf("expected decreasing, got %s", got)
	}
}

func TestClassifyTrend_ReverseSymmetry(t *testing.T) {
	series := []float64{30, 40, 50, 60, 70, 80}
	forward := classifyTrend(series, accuracyTrendLabels)

	reversed := make([]float64, len(series))
	for i, v := range series {
		reversed[len(series)-1-i] = v
	}
	backward := classifyTrend(reversed, accuracyTrendLabels)

	if forward != models.TrendIncreasing || backward != models.TrendDecreasing {
		t.Errorf("expected increasing/decreasing pair, got %s/%s", forward, backward)
	}
}

func TestClassifyTrend_BoundaryBandIsSymmetric(t *testing.T) {
	// Just past the margin: 100 vs 111 is a 10.4% change against the
	// midpoint, so both directions must classify, not just one.
	forward := classifyTrend([]float64{100, 111}, accuracyTrendLabels)
	backward := classifyTrend([]float64{111, 100}, accuracyTrendLabels)

	if forward != models.TrendIncreasing {
		t.Errorf("expected increasing just past the margin, got %s", forward)
	}
	if backward != models.TrendDecreasing {
		t.Errorf("expected decreasing for the reversed pair, got %s", backward)
	}
}

func TestClassifyTrend_WithinMarginIsStable(t *testing.T) {
	// Later half mean 52.5 vs earlier 50: a 5% change, inside the margin.
	series := []float64{50, 50, 52.5, 52.5}
	if got := classifyTrend(series, accuracyTrendLabels); got != models.TrendStable {
		t.Errorf("expected stable inside margin, got %s", got)
	}
}

func TestClassifyTrend_ZeroBaselineRise(t *testing.T) {
	series := []float64{0, 0, 3, 4}
	if got := classifyTrend(series, frequencyTrendLabels); got != models.TrendIncreasing {
		t.Errorf("expected increasing from zero baseline, got %s", got)
	}
}

func TestClassifyTrend_AllZeroIsStable(t *testing.T) {
	series := []float64{0, 0, 0, 0}
	if got := classifyTrend(series, frequencyTrendLabels); got != models.TrendStable {
		t.Errorf("expected stable for all-zero series, got %s", got)
	}
}

func TestClassifyTrend_DurationLabels(t *testing.T) {
	falling := []float64{12, 11, 10, 6, 5, 4}
	if got := classifyTrend(falling, durationTrendLabels); got != models.TrendFaster {
		t.Errorf("expected faster for falling durations, got %s", got)
	}

	rising := []float64{4, 5, 6, 10, 11, 12}
	if got := classifyTrend(rising, durationTrendLabels); got != models.TrendSlower {
		t.Errorf("expected slower for rising durations, got %s", got)
	}
}

func TestClassifyTrend_Deterministic(t *testing.T) {
	series := []float64{55, 60, 48, 70, 66, 72}
	first := classifyTrend(series, accuracyTrendLabels)
	for i := 0; i < 10; i++ {
		if got := classifyTrend(series, accuracyTrendLabels); got != first {
			t.Fatalf("classification changed between runs: %s vs %s", first, got)
		}
	}
}
