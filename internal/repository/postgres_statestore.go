package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// PostgresStateStore is a PostgreSQL implementation of the StateStore
// interface.
type PostgresStateStore struct {
	db *pgxpool.Pool
}

// NewPostgresStateStore creates a new PostgresStateStore.
func NewPostgresStateStore(db *pgxpool.Pool) *PostgresStateStore {
	return &PostgresStateStore{db: db}
}

// EnsureSchema creates the elevator_states table and indexes if
// missing.
func (s *PostgresStateStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS elevator_states (
		id UUID PRIMARY KEY,
		current_floor INT NOT NULL,
		demand_floor INT NOT NULL,
		next_floor INT NOT NULL,
		call_datetime TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_elevator_states_call_datetime
		ON elevator_states (call_datetime);`)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// Insert stores a single elevator state. A missing ID is filled with a
// fresh UUID.
func (s *PostgresStateStore) Insert(ctx context.Context, state *models.ElevatorState) error {
	if state.ID == "" {
		state.ID = uuid.New().String()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO elevator_states (id, current_floor, demand_floor, next_floor, call_datetime)
		 VALUES ($1, $2, $3, $4, $5)`,
		state.ID, state.CurrentFloor, state.DemandFloor, state.NextFloor, state.CallDatetime,
	)
	return err
}

// Last returns the most recent state by call time.
func (s *PostgresStateStore) Last(ctx context.Context) (*models.ElevatorState, error) {
	var state models.ElevatorState
	err := s.db.QueryRow(ctx,
		`SELECT id, current_floor, demand_floor, next_floor, call_datetime, created_at
		 FROM elevator_states
		 ORDER BY call_datetime DESC, created_at DESC
		 LIMIT 1`,
	).Scan(&state.ID, &state.CurrentFloor, &state.DemandFloor, &state.NextFloor, &state.CallDatetime, &state.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoStates
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// List returns states matching the query, most recent first.
func (s *PostgresStateStore) List(ctx context.Context, query models.StateQuery) ([]*models.ElevatorState, error) {
	sql := `SELECT id, current_floor, demand_floor, next_floor, call_datetime, created_at
		 FROM elevator_states`
	var args []interface{}
	if query.From != nil {
		args = append(args, *query.From)
		sql += fmt.Sprintf(" WHERE call_datetime >= $%d", len(args))
	}
	if query.To != nil {
		args = append(args, *query.To)
		if query.From != nil {
			sql += fmt.Sprintf(" AND call_datetime <= $%d", len(args))
		} else {
			sql += fmt.Sprintf(" WHERE call_datetime <= $%d", len(args))
		}
	}
	sql += " ORDER BY call_datetime DESC"
	if query.Limit > 0 {
		args = append(args, query.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*models.ElevatorState
	for rows.Next() {
		var state models.ElevatorState
		err := rows.Scan(&state.ID, &state.CurrentFloor, &state.DemandFloor, &state.NextFloor, &state.CallDatetime, &state.CreatedAt)
		if err != nil {
			return nil, err
		}
		states = append(states, &state)
	}
	return states, rows.Err()
}

// Count returns the number of stored states.
func (s *PostgresStateStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM elevator_states").Scan(&count)
	return count, err
}

// DemandCounts returns per-floor call counts, busiest first.
func (s *PostgresStateStore) DemandCounts(ctx context.Context) ([]models.FloorCount, error) {
	rows, err := s.db.Query(ctx,
		`SELECT demand_floor, COUNT(*)
		 FROM elevator_states
		 GROUP BY demand_floor
		 ORDER BY COUNT(*) DESC, demand_floor`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.FloorCount
	for rows.Next() {
		var fc models.FloorCount
		if err := rows.Scan(&fc.Floor, &fc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, fc)
	}
	return counts, rows.Err()
}

// CallTimes returns call times in ascending order. A positive limit
// keeps only the most recent window.
func (s *PostgresStateStore) CallTimes(ctx context.Context, limit int) ([]time.Time, error) {
	sql := "SELECT call_datetime FROM elevator_states ORDER BY call_datetime"
	var args []interface{}
	if limit > 0 {
		// Take the newest rows, then flip back to ascending below.
		sql = "SELECT call_datetime FROM elevator_states ORDER BY call_datetime DESC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if limit > 0 {
		for i, j := 0, len(times)-1; i < j; i, j = i+1, j-1 {
			times[i], times[j] = times[j], times[i]
		}
	}
	return times, nil
}

// Ping verifies the backing database is reachable.
func (s *PostgresStateStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
