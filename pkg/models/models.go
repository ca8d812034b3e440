// Package models defines the domain models for the elevator dataset service
package models

import (
	"time"
)

// FloorType classifies a floor by its use, which drives call weighting.
type FloorType string

const (
	FloorTypeResidential FloorType = "Residential"
	FloorTypeCommercial  FloorType = "Commercial"
	FloorTypeOffice      FloorType = "Office"
	FloorTypeParking     FloorType = "Parking"
	FloorTypeLobby       FloorType = "Lobby"
)

// HealthStatus represents service health
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProblemDetails represents RFC 7807 Problem Details
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}
