package services

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// AnalyticsService computes traffic statistics over the stored dataset.
type AnalyticsService struct {
	store repository.StateStore

	// window caps how many recent calls feed the statistics; zero means
	// the whole table.
	window int
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store repository.StateStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// TrafficStats aggregates the stored states: totals, demand histogram,
// and the distribution of minutes between consecutive calls.
func (s *AnalyticsService) TrafficStats(ctx context.Context) (*models.TrafficStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting states: %w", err)
	}

	out := &models.TrafficStats{States: count}
	if count == 0 {
		return out, nil
	}

	counts, err := s.store.DemandCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading demand counts: %w", err)
	}
	out.DemandCounts = counts
	if len(counts) > 0 {
		busiest := counts[0]
		out.BusiestFloor = &busiest
	}

	times, err := s.store.CallTimes(ctx, s.window)
	if err != nil {
		return nil, fmt.Errorf("reading call times: %w", err)
	}
	if len(times) > 0 {
		first, last := times[0], times[len(times)-1]
		out.FirstCall = &first
		out.LastCall = &last
	}

	if len(times) >= 2 {
		intervals := make([]float64, 0, len(times)-1)
		for i := 1; i < len(times); i++ {
			intervals = append(intervals, times[i].Sub(times[i-1]).Minutes())
		}
		mean, _ := stats.Mean(intervals)
		median, _ := stats.Median(intervals)
		p95, _ := stats.Percentile(intervals, 95)
		stddev, _ := stats.StandardDeviation(intervals)
		out.Intervals = models.IntervalStats{
			MeanMinutes:   mean,
			MedianMinutes: median,
			P95Minutes:    p95,
			StdDevMinutes: stddev,
		}
	}

	return out, nil
}
