package services

import (
	"context"
	"errors"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// ErrPredictorDisabled is returned when no prediction sidecar is
// configured.
var ErrPredictorDisabled = errors.New("prediction sidecar not configured")

// Predictor is an interface for the next-floor prediction sidecar.
type Predictor interface {
	// NextFloor predicts the floor the cab will be called to after the
	// given state.
	NextFloor(ctx context.Context, state *models.ElevatorState) (*models.Prediction, error)
}
