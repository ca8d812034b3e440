package simulation

import (
	"math"
	"math/rand"
	"time"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

// Sequencer produces successive elevator states for one cab. It tracks
// the cab position, the outstanding demand floor, and the clock of the
// last call, so sequences can continue seamlessly from a stored row.
type Sequencer struct {
	profile *config.BuildingProfile
	weights Weights
	rand    *rand.Rand

	current int
	demand  int
	at      time.Time
}

// New creates a sequencer for the given building. The caller seeds it
// with Start or Resume before drawing states.
func New(profile *config.BuildingProfile, r *rand.Rand) *Sequencer {
	return &Sequencer{
		profile: profile,
		weights: FloorWeights(profile),
		rand:    r,
	}
}

// Start seeds a fresh sequence: random cab and demand floors, clock at
// the given time.
func (s *Sequencer) Start(now time.Time) {
	s.current = s.weights.Pick(s.rand)
	s.demand = s.weights.Pick(s.rand)
	s.at = now
}

// Resume continues a sequence from a stored state: the cab sits where
// the last row sent it, the last demand stands, and the clock picks up
// at the last call time.
func (s *Sequencer) Resume(last models.ElevatorState) {
	s.current = last.NextFloor
	s.demand = last.DemandFloor
	s.at = last.CallDatetime
}

// Next draws the following state and advances the sequencer.
func (s *Sequencer) Next() models.ElevatorState {
	next := s.weights.PickOther(s.rand, s.demand)
	minutes := s.intervalMinutes(next)
	callAt := s.at.Add(time.Duration(minutes * float64(time.Minute)))

	state := models.ElevatorState{
		CurrentFloor: s.current,
		DemandFloor:  s.demand,
		NextFloor:    next,
		CallDatetime: callAt,
	}

	s.current = next
	s.demand = s.weights.Pick(s.rand)
	s.at = callAt
	return state
}

// intervalMinutes computes the minutes until the next call: a random
// wait, compressed during peak hours, plus the travel lag of the two
// pending legs.
func (s *Sequencer) intervalMinutes(next int) float64 {
	currentLag := s.legLag(abs(s.current - s.demand))
	nextLag := s.legLag(abs(next - s.demand))

	multiplier := 1.0
	if s.profile.InPeak(s.at.Hour()) {
		multiplier = s.profile.PeakMultiplier
	}

	span := s.profile.RandomMinutes.Max - s.profile.RandomMinutes.Min + 1
	randomMinutes := s.profile.RandomMinutes.Min + s.rand.Intn(span)

	return float64(randomMinutes)*multiplier + currentLag + nextLag
}

// legLag converts a travel distance in floors to minutes. Adjacent
// floors take the minimum interval; longer trips scale per floor up to
// the maximum.
func (s *Sequencer) legLag(distance int) float64 {
	seconds := float64(s.profile.MinIntervalSeconds)
	if distance > 1 {
		seconds = math.Min(
			float64(s.profile.MaxIntervalSeconds),
			float64(distance)*s.profile.SecondsPerFloor,
		)
	}
	return seconds / 60
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
