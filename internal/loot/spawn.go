package loot

import (
	"math/rand"

	"dogpark-server/internal/geom"
	"dogpark-server/internal/model"
)

// SpawnPolicy selects where a newly joined dog appears. Chosen once at
// startup from the --randomize-spawn-points CLI flag (spec §4.3, §6).
type SpawnPolicy int

const (
	// Deterministic always spawns at the first road's start point.
	Deterministic SpawnPolicy = iota
	// Randomized spawns at a uniform point along a uniformly chosen road.
	Randomized
)

// DogSpawnPoint returns the position a newly joined dog should appear at.
func DogSpawnPoint(policy SpawnPolicy, m *model.Map, rng *rand.Rand) geom.Point {
	if len(m.Roads) == 0 {
		return geom.Point{}
	}
	if policy == Deterministic {
		return m.Roads[0].Start
	}
	return RandomRoadPoint(m, rng)
}

// RandomRoadPoint picks a uniform road, then a uniform position along it.
// Used for randomized dog spawns and, always, for loot spawns (spec §4.3).
func RandomRoadPoint(m *model.Map, rng *rand.Rand) geom.Point {
	if len(m.Roads) == 0 {
		return geom.Point{}
	}
	r := m.Roads[rng.Intn(len(m.Roads))]
	if r.Horizontal() {
		lo, hi := r.Start.X, r.End.X
		if lo > hi {
			lo, hi = hi, lo
		}
		return geom.Point{X: lo + rng.Float64()*(hi-lo), Y: r.Start.Y}
	}
	lo, hi := r.Start.Y, r.End.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	return geom.Point{X: r.Start.X, Y: lo + rng.Float64()*(hi-lo)}
}
