package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/logging"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/simulation"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// GeneratorService produces elevator states and persists them. Each run
// continues the stored sequence when the table already has rows.
type GeneratorService struct {
	store   repository.StateStore
	profile *config.BuildingProfile
	logger  *logging.Logger

	now  func() time.Time
	seed func() int64

	generated metric.Int64Counter
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(store repository.StateStore, profile *config.BuildingProfile, logger *logging.Logger) *GeneratorService {
	meter := otel.Meter("elevator-data-generator/services")
	generated, _ := meter.Int64Counter("elevator.states.generated",
		metric.WithDescription("Number of elevator states generated"))

	return &GeneratorService{
		store:     store,
		profile:   profile,
		logger:    logger,
		now:       time.Now,
		seed:      func() int64 { return time.Now().UnixNano() },
		generated: generated,
	}
}

// Generate draws rows states and stores them. A non-positive rows falls
// back to the profile's rows_generated. The sequence resumes from the
// last stored state; an empty table starts fresh at the current time.
func (s *GeneratorService) Generate(ctx context.Context, rows int) (*models.GenerationRun, error) {
	if rows <= 0 {
		rows = s.profile.RowsGenerated
	}

	startedAt := s.now()
	seq := simulation.New(s.profile, rand.New(rand.NewSource(s.seed())))

	resumed := true
	last, err := s.store.Last(ctx)
	switch {
	case errors.Is(err, repository.ErrNoStates):
		resumed = false
		seq.Start(startedAt)
	case err != nil:
		return nil, fmt.Errorf("reading last state: %w", err)
	default:
		seq.Resume(*last)
	}

	run := &models.GenerationRun{
		ID:        uuid.New().String(),
		Resumed:   resumed,
		StartedAt: startedAt,
	}
	s.logger.Debug("generation run starting", "run_id", run.ID, "rows", rows, "resumed", resumed)

	for i := 0; i < rows; i++ {
		state := seq.Next()
		state.ID = uuid.New().String()
		if err := s.store.Insert(ctx, &state); err != nil {
			return nil, fmt.Errorf("inserting state %d of %d: %w", i+1, rows, err)
		}

		if run.Rows == 0 {
			run.FirstCall = state.CallDatetime
		}
		run.Rows++
		run.LastCall = state.CallDatetime
		s.generated.Add(ctx, 1)
	}

	run.Elapsed = s.now().Sub(startedAt).Seconds()
	s.logger.Info("generation run finished",
		"run_id", run.ID, "rows", run.Rows, "resumed", run.Resumed, "last_call", run.LastCall)
	return run, nil
}
