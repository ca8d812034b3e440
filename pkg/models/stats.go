package models

import (
	"time"
)

// FloorCount is the number of calls observed for a single floor.
type FloorCount struct {
	Floor int   `json:"floor"`
	Count int64 `json:"count"`
}

// IntervalStats describes the distribution of minutes between
// consecutive calls.
type IntervalStats struct {
	MeanMinutes   float64 `json:"mean_minutes"`
	MedianMinutes float64 `json:"median_minutes"`
	P95Minutes    float64 `json:"p95_minutes"`
	StdDevMinutes float64 `json:"stddev_minutes"`
}

// TrafficStats aggregates the stored dataset for reporting.
type TrafficStats struct {
	States       int64         `json:"states"`
	FirstCall    *time.Time    `json:"first_call,omitempty"`
	LastCall     *time.Time    `json:"last_call,omitempty"`
	BusiestFloor *FloorCount   `json:"busiest_floor,omitempty"`
	DemandCounts []FloorCount  `json:"demand_counts,omitempty"`
	Intervals    IntervalStats `json:"intervals"`
}

// Prediction is the sidecar's guess at the next demanded floor.
type Prediction struct {
	NextFloor  int     `json:"next_floor"`
	Confidence float64 `json:"confidence"`
	Model      string  `json:"model,omitempty"`
}
