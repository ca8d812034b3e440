package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

var testClock = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func generatorProfile() *config.BuildingProfile {
	return &config.BuildingProfile{
		FloorCapacities: map[models.FloorType]int{
			models.FloorTypeResidential: 10,
			models.FloorTypeLobby:       50,
		},
		FloorTypes: map[string]models.FloorType{
			"0": models.FloorTypeLobby,
		},
		RowsGenerated:      3,
		Floors:             6,
		NegativeFloors:     -1,
		MinIntervalSeconds: 10,
		MaxIntervalSeconds: 120,
		SecondsPerFloor:    5,
		PeakHours:          []config.PeakWindow{{Start: 7, End: 9}},
		PeakMultiplier:     0.5,
		RandomMinutes:      config.MinutesRange{Min: 1, Max: 10},
	}
}

func newTestGenerator(store repository.StateStore) *GeneratorService {
	g := NewGeneratorService(store, generatorProfile(), logging.NewLogger())
	g.now = func() time.Time { return testClock }
	g.seed = func() int64 { return 42 }
	return g
}

func TestGenerate_FreshStore(t *testing.T) {
	store := new(MockStateStore)
	store.On("Last", mock.Anything).Return(nil, repository.ErrNoStates)

	var inserted []models.ElevatorState
	store.On("Insert", mock.Anything, mock.AnythingOfType("*models.ElevatorState")).
		Run(func(args mock.Arguments) {
			inserted = append(inserted, *args.Get(1).(*models.ElevatorState))
		}).
		Return(nil)

	g := newTestGenerator(store)
	run, err := g.Generate(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, run.Rows)
	assert.False(t, run.Resumed)
	assert.NotEmpty(t, run.ID)
	require.Len(t, inserted, 5)

	assert.True(t, run.FirstCall.Equal(inserted[0].CallDatetime))
	assert.True(t, run.LastCall.Equal(inserted[4].CallDatetime))

	prev := inserted[0]
	assert.NotEmpty(t, prev.ID)
	assert.True(t, prev.CallDatetime.After(testClock))
	for _, state := range inserted[1:] {
		assert.Equal(t, prev.NextFloor, state.CurrentFloor)
		assert.NotEqual(t, state.DemandFloor, state.NextFloor)
		assert.True(t, state.CallDatetime.After(prev.CallDatetime))
		prev = state
	}

	store.AssertExpectations(t)
}

func TestGenerate_ResumesFromLastRow(t *testing.T) {
	last := &models.ElevatorState{
		CurrentFloor: 1,
		DemandFloor:  4,
		NextFloor:    2,
		CallDatetime: testClock.Add(-time.Hour),
	}

	store := new(MockStateStore)
	store.On("Last", mock.Anything).Return(last, nil)

	var first *models.ElevatorState
	store.On("Insert", mock.Anything, mock.AnythingOfType("*models.ElevatorState")).
		Run(func(args mock.Arguments) {
			if first == nil {
				state := *args.Get(1).(*models.ElevatorState)
				first = &state
			}
		}).
		Return(nil)

	g := newTestGenerator(store)
	run, err := g.Generate(context.Background(), 2)
	require.NoError(t, err)

	assert.True(t, run.Resumed)
	require.NotNil(t, first)
	assert.Equal(t, 2, first.CurrentFloor, "cab resumes at the stored next floor")
	assert.Equal(t, 4, first.DemandFloor, "stored demand survives")
	assert.True(t, first.CallDatetime.After(last.CallDatetime))
}

func TestGenerate_DefaultsToProfileRows(t *testing.T) {
	store := new(MockStateStore)
	store.On("Last", mock.Anything).Return(nil, repository.ErrNoStates)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	g := newTestGenerator(store)
	run, err := g.Generate(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, run.Rows)
	store.AssertNumberOfCalls(t, "Insert", 3)
}

func TestGenerate_LastErrorPropagates(t *testing.T) {
	store := new(MockStateStore)
	store.On("Last", mock.Anything).Return(nil, errors.New("connection refused"))

	g := newTestGenerator(store)
	_, err := g.Generate(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading last state")
}

func TestGenerate_InsertErrorPropagates(t *testing.T) {
	store := new(MockStateStore)
	store.On("Last", mock.Anything).Return(nil, repository.ErrNoStates)
	store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	g := newTestGenerator(store)
	_, err := g.Generate(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting state 1 of 2")
}
