// Package loot implements the stochastic loot-budget generator (spec §4.2)
// and the two spawn policies used to place new dogs and new loot (§4.3).
package loot

import (
	"math"
	"math/rand"
)

// Generator tracks the "time without loot" accumulator for one session and
// draws the per-tick loot count under the law described in spec §4.2.
type Generator struct {
	Period          float64 // ms
	Probability     float64 // in [0,1]
	TimeWithoutLoot float64 // ms, round-trips through snapshots verbatim

	rng *rand.Rand
}

// NewGenerator builds a generator over an engine-owned PRNG. period and
// probability come from the global loot-generator defaults; maps carry no
// override of their own.
func NewGenerator(period, probability float64, rng *rand.Rand) *Generator {
	return &Generator{Period: period, Probability: probability, rng: rng}
}

// Next returns the number of loot items to spawn this tick, given the
// elapsed time dt (ms) and the current loot/dog counts on the session.
//
// Implements spec §4.2: accumulate time_without_loot, then draw a Bernoulli
// with parameter 1-(1-probability)^(time_without_loot/period); on a hit,
// emit max(0, dog_count-loot_count) items and reset the accumulator.
func (g *Generator) Next(dt float64, lootCount, dogCount int) int {
	g.TimeWithoutLoot += dt

	deficit := dogCount - lootCount
	if deficit <= 0 {
		return 0
	}

	if g.Period <= 0 || g.Probability <= 0 {
		return 0
	}

	p := 1 - math.Pow(1-g.Probability, g.TimeWithoutLoot/g.Period)
	if g.rng.Float64() >= p {
		return 0
	}

	g.TimeWithoutLoot = 0
	return deficit
}
