package models

import (
	"time"
)

// ElevatorState is one observation of the simulated cab: where it is,
// which floor called it, and which floor it serves next.
type ElevatorState struct {
	ID           string    `json:"id" db:"id"`
	CurrentFloor int       `json:"current_floor" db:"current_floor"`
	DemandFloor  int       `json:"demand_floor" db:"demand_floor"`
	NextFloor    int       `json:"next_floor" db:"next_floor"`
	CallDatetime time.Time `json:"call_datetime" db:"call_datetime"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// GenerationRun summarizes one batch of generated states.
type GenerationRun struct {
	ID        string    `json:"id"`
	Rows      int       `json:"rows"`
	Resumed   bool      `json:"resumed"`
	FirstCall time.Time `json:"first_call"`
	LastCall  time.Time `json:"last_call"`
	StartedAt time.Time `json:"started_at"`
	Elapsed   float64   `json:"elapsed_seconds"`
}

// StateQuery contains parameters for listing elevator states.
type StateQuery struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
