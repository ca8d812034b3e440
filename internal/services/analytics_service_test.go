package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

func TestTrafficStats_EmptyStore(t *testing.T) {
	store := new(MockStateStore)
	store.On("Count", mock.Anything).Return(int64(0), nil)

	svc := NewAnalyticsService(store)
	out, err := svc.TrafficStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), out.States)
	assert.Nil(t, out.BusiestFloor)
	assert.Nil(t, out.FirstCall)
	store.AssertNotCalled(t, "DemandCounts", mock.Anything)
}

func TestTrafficStats_Aggregates(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(10 * time.Minute),
		base.Add(20 * time.Minute),
		base.Add(40 * time.Minute),
	}
	counts := []models.FloorCount{
		{Floor: 3, Count: 2},
		{Floor: 5, Count: 1},
		{Floor: 1, Count: 1},
	}

	store := new(MockStateStore)
	store.On("Count", mock.Anything).Return(int64(4), nil)
	store.On("DemandCounts", mock.Anything).Return(counts, nil)
	store.On("CallTimes", mock.Anything, 0).Return(times, nil)

	svc := NewAnalyticsService(store)
	out, err := svc.TrafficStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), out.States)
	require.NotNil(t, out.BusiestFloor)
	assert.Equal(t, 3, out.BusiestFloor.Floor)
	assert.Equal(t, int64(2), out.BusiestFloor.Count)

	require.NotNil(t, out.FirstCall)
	require.NotNil(t, out.LastCall)
	assert.True(t, out.FirstCall.Equal(base))
	assert.True(t, out.LastCall.Equal(base.Add(40*time.Minute)))

	// Intervals are 10, 10, and 20 minutes.
	assert.InDelta(t, 40.0/3, out.Intervals.MeanMinutes, 1e-9)
	assert.InDelta(t, 10.0, out.Intervals.MedianMinutes, 1e-9)
	assert.InDelta(t, 4.714, out.Intervals.StdDevMinutes, 0.001)
	assert.GreaterOrEqual(t, out.Intervals.P95Minutes, out.Intervals.MedianMinutes)
	assert.LessOrEqual(t, out.Intervals.P95Minutes, 20.0)
}

func TestTrafficStats_SingleRow(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	store := new(MockStateStore)
	store.On("Count", mock.Anything).Return(int64(1), nil)
	store.On("DemandCounts", mock.Anything).Return([]models.FloorCount{{Floor: 2, Count: 1}}, nil)
	store.On("CallTimes", mock.Anything, 0).Return([]time.Time{base}, nil)

	svc := NewAnalyticsService(store)
	out, err := svc.TrafficStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.States)
	// One call has no intervals to describe.
	assert.Zero(t, out.Intervals.MeanMinutes)
	assert.True(t, out.FirstCall.Equal(*out.LastCall))
}
