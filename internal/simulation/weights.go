// Package simulation generates elevator call sequences from a building
// profile. Floor choice is weighted by room capacity, and call spacing
// follows travel distance and peak hours.
package simulation

import (
	"math/rand"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/config"
)

// Weights holds the normalized pick probability for every served floor,
// ordered from the lowest basement to the top floor.
type Weights struct {
	low  int
	vals []float64
}

// FloorWeights derives a pick probability per floor from room
// capacities: a base weight plus the floor's share of the capacity
// spread, normalized to sum 1. Uniform capacities yield uniform
// weights.
func FloorWeights(profile *config.BuildingProfile) Weights {
	low, high := profile.FloorRange()

	capacities := make([]int, 0, high-low)
	minCap, maxCap := 0, 0
	for floor := low; floor < high; floor++ {
		c := profile.Capacity(floor)
		if len(capacities) == 0 || c < minCap {
			minCap = c
		}
		if len(capacities) == 0 || c > maxCap {
			maxCap = c
		}
		capacities = append(capacities, c)
	}

	base := 1.0 / float64(profile.Floors)
	vals := make([]float64, len(capacities))
	total := 0.0
	for i, c := range capacities {
		w := base
		if maxCap > minCap {
			w += float64(c-minCap) / float64(maxCap-minCap)
		}
		vals[i] = w
		total += w
	}
	for i := range vals {
		vals[i] /= total
	}

	return Weights{low: low, vals: vals}
}

// Values returns the probabilities ordered by floor.
func (w Weights) Values() []float64 {
	return w.vals
}

// Floor returns the floor number at index i of Values.
func (w Weights) Floor(i int) int {
	return w.low + i
}

// Pick draws a floor according to the weights.
func (w Weights) Pick(r *rand.Rand) int {
	x := r.Float64()
	acc := 0.0
	for i, v := range w.vals {
		acc += v
		if x < acc {
			return w.low + i
		}
	}
	// Rounding can leave the accumulated total a hair under x.
	return w.low + len(w.vals) - 1
}

// PickOther draws a floor different from the given one. A single-floor
// building has nothing else to offer and returns that floor.
func (w Weights) PickOther(r *rand.Rand, not int) int {
	if len(w.vals) == 1 {
		return w.low
	}
	for {
		floor := w.Pick(r)
		if floor != not {
			return floor
		}
	}
}
