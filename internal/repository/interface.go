package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// ErrNoStates is returned when the store holds no elevator states yet.
var ErrNoStates = errors.New("no elevator states recorded")

// StateStore is an interface for persisting and querying elevator
// states.
type StateStore interface {
	// EnsureSchema creates the backing table and indexes if missing.
	EnsureSchema(ctx context.Context) error
	// Insert stores a single elevator state.
	Insert(ctx context.Context, state *models.ElevatorState) error
	// Last returns the most recent state by call time, or ErrNoStates.
	Last(ctx context.Context) (*models.ElevatorState, error)
	// List returns states matching the query, most recent first.
	List(ctx context.Context, query models.StateQuery) ([]*models.ElevatorState, error)
	// Count returns the number of stored states.
	Count(ctx context.Context) (int64, error)
	// DemandCounts returns per-floor call counts, busiest first.
	DemandCounts(ctx context.Context) ([]models.FloorCount, error)
	// CallTimes returns call times in ascending order. A positive limit
	// keeps only the most recent window.
	CallTimes(ctx context.Context, limit int) ([]time.Time, error)
	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}
