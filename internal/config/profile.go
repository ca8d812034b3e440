package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// PeakWindow is a half-open hour range [Start, End) during which calls
// arrive faster.
type PeakWindow struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// MinutesRange bounds the random minutes added between consecutive
// calls.
type MinutesRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// BuildingProfile describes the simulated building and the timing of
// its elevator traffic. The JSON form is the elevator_variables.json
// file from the original dataset tooling.
type BuildingProfile struct {
	FloorCapacities    map[models.FloorType]int    `json:"floor_capacities" yaml:"floor_capacities"`
	FloorTypes         map[string]models.FloorType `json:"floor_types" yaml:"floor_types"`
	RowsGenerated      int                         `json:"rows_generated" yaml:"rows_generated"`
	Floors             int                         `json:"floor_number" yaml:"floor_number"`
	NegativeFloors     int                         `json:"negative_floor_number" yaml:"negative_floor_number"`
	MinIntervalSeconds int                         `json:"min_time_interval_seconds" yaml:"min_time_interval_seconds"`
	MaxIntervalSeconds int                         `json:"max_time_interval_seconds" yaml:"max_time_interval_seconds"`
	SecondsPerFloor    float64                     `json:"interval_per_floor_seconds" yaml:"interval_per_floor_seconds"`
	PeakHours          []PeakWindow                `json:"peak_hours" yaml:"peak_hours"`
	PeakMultiplier     float64                     `json:"peak_multiplier" yaml:"peak_multiplier"`
	RandomMinutes      MinutesRange                `json:"random_minutes_range" yaml:"random_minutes_range"`
}

// LoadProfile reads a building profile from a JSON or YAML file and
// validates it.
func LoadProfile(path string) (*BuildingProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading building profile: %w", err)
	}

	var profile BuildingProfile
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json.Unmarshal(data, &profile)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing building profile %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid building profile %s: %w", path, err)
	}
	return &profile, nil
}

// Validate checks the profile against the constraints the generator
// depends on.
func (p *BuildingProfile) Validate() error {
	if len(p.FloorCapacities) == 0 {
		return fmt.Errorf("floor_capacities must not be empty")
	}
	for floorType, capacity := range p.FloorCapacities {
		if capacity <= 0 {
			return fmt.Errorf("invalid capacity for %s", floorType)
		}
	}
	if p.RowsGenerated <= 0 {
		return fmt.Errorf("rows_generated must be positive")
	}
	if p.Floors <= 0 {
		return fmt.Errorf("floor_number must be positive")
	}
	if p.NegativeFloors > 0 {
		return fmt.Errorf("negative_floor_number must be zero or negative")
	}
	if p.MinIntervalSeconds <= 0 {
		return fmt.Errorf("min_time_interval_seconds must be positive")
	}
	if p.MaxIntervalSeconds <= 0 {
		return fmt.Errorf("max_time_interval_seconds must be positive")
	}
	if p.SecondsPerFloor < 0 {
		return fmt.Errorf("interval_per_floor_seconds must not be negative")
	}
	if p.PeakMultiplier < 0 || p.PeakMultiplier > 1 {
		return fmt.Errorf("peak_multiplier must be between 0 and 1")
	}
	if p.RandomMinutes.Min < 0 || p.RandomMinutes.Max < p.RandomMinutes.Min {
		return fmt.Errorf("random_minutes_range must satisfy 0 <= min <= max")
	}
	for floor, floorType := range p.FloorTypes {
		if _, err := strconv.Atoi(floor); err != nil {
			return fmt.Errorf("floor_types key %q is not a floor number", floor)
		}
		if _, ok := p.FloorCapacities[floorType]; !ok {
			return fmt.Errorf("floor %s has type %s with no capacity", floor, floorType)
		}
	}
	if len(p.FloorTypes) < p.TotalFloors() {
		if _, ok := p.FloorCapacities[models.FloorTypeResidential]; !ok {
			return fmt.Errorf("unmapped floors default to %s, which has no capacity", models.FloorTypeResidential)
		}
	}
	return nil
}

// TotalFloors is the number of floors the cab serves, basements
// included.
func (p *BuildingProfile) TotalFloors() int {
	return p.Floors - p.NegativeFloors
}

// FloorRange returns the served floors as the half-open interval
// [low, high).
func (p *BuildingProfile) FloorRange() (low, high int) {
	return p.NegativeFloors, p.Floors
}

// Capacity returns the room capacity behind a floor. Floors without an
// explicit type count as Residential, matching the original tooling.
func (p *BuildingProfile) Capacity(floor int) int {
	floorType, ok := p.FloorTypes[strconv.Itoa(floor)]
	if !ok {
		floorType = models.FloorTypeResidential
	}
	return p.FloorCapacities[floorType]
}

// InPeak reports whether the given hour falls inside any peak window.
func (p *BuildingProfile) InPeak(hour int) bool {
	for _, window := range p.PeakHours {
		if window.Start <= hour && hour < window.End {
			return true
		}
	}
	return false
}
