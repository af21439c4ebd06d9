package session

import (
	"fmt"
	"math/rand"
	"sort"

	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
)

// Defaults holds the global fallbacks applied when a map omits its own
// values, per spec §6.
type Defaults struct {
	DogSpeed        float64
	BagCapacity     int
	LootPeriod      float64
	LootProbability float64
	MaxIdleMs       float64
}

// Game owns the map catalog and one GameSession per map, created lazily on
// first join. The monotonic dog-id counter and the spawn PRNG live here
// rather than process-wide, so tests can instantiate independent games
// (spec §9, "Global state").
type Game struct {
	maps     map[string]*model.Map
	mapOrder []string
	sessions map[string]*GameSession

	Defaults    Defaults
	SpawnPolicy loot.SpawnPolicy

	rng      *rand.Rand
	nextDogID uint64
}

// NewGame builds a Game over a fixed map catalog. rng seeds both loot
// spawn placement and, indirectly (via NewGenerator per session), the loot
// generator draws.
func NewGame(maps []*model.Map, defaults Defaults, policy loot.SpawnPolicy, rng *rand.Rand) *Game {
	g := &Game{
		maps:        make(map[string]*model.Map, len(maps)),
		sessions:    make(map[string]*GameSession),
		Defaults:    defaults,
		SpawnPolicy: policy,
		rng:         rng,
	}
	for _, m := range maps {
		g.maps[m.ID] = m
		g.mapOrder = append(g.mapOrder, m.ID)
	}
	return g
}

// Maps returns the map catalog in load order.
func (g *Game) Maps() []*model.Map {
	out := make([]*model.Map, 0, len(g.mapOrder))
	for _, id := range g.mapOrder {
		out = append(out, g.maps[id])
	}
	return out
}

// Map looks up a map by id.
func (g *Game) Map(id string) (*model.Map, bool) {
	m, ok := g.maps[id]
	return m, ok
}

// Sessions returns all live sessions, sorted by map id for deterministic
// tick ordering.
func (g *Game) Sessions() []*GameSession {
	ids := make([]string, 0, len(g.sessions))
	for id := range g.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*GameSession, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.sessions[id])
	}
	return out
}

// SessionFor returns the session for a map, instantiating it on first use.
func (g *Game) SessionFor(mapID string) (*GameSession, error) {
	if s, ok := g.sessions[mapID]; ok {
		return s, nil
	}
	m, ok := g.maps[mapID]
	if !ok {
		return nil, fmt.Errorf("session: unknown map %q", mapID)
	}
	period, prob := g.Defaults.LootPeriod, g.Defaults.LootProbability
	gen := loot.NewGenerator(period, prob, g.rng)
	s := NewGameSession(m, gen)
	g.sessions[mapID] = s
	return s, nil
}

// RestoreSession installs a session built by the snapshot loader, bypassing
// spawn/generator construction.
func (g *Game) RestoreSession(s *GameSession) {
	g.sessions[s.MapID] = s
}

// NextDogID returns the next value of the monotonic dog-id counter.
func (g *Game) NextDogID() uint64 {
	g.nextDogID++
	return g.nextDogID
}

// ObserveDogID advances the counter past id, used when restoring a snapshot
// so freshly joined dogs never collide with a restored id.
func (g *Game) ObserveDogID(id uint64) {
	if id > g.nextDogID {
		g.nextDogID = id
	}
}

// speedFor and bagCapacityFor resolve per-map overrides against defaults.
func speedFor(m *model.Map, d Defaults) float64 {
	if m.DogSpeed > 0 {
		return m.DogSpeed
	}
	return d.DogSpeed
}

func bagCapacityFor(m *model.Map, d Defaults) int {
	if m.BagCapacity > 0 {
		return m.BagCapacity
	}
	return d.BagCapacity
}

// Speed returns the effective dog speed for a map.
func (g *Game) Speed(m *model.Map) float64 { return speedFor(m, g.Defaults) }

// BagCapacity returns the effective bag capacity for a map.
func (g *Game) BagCapacity(m *model.Map) int { return bagCapacityFor(m, g.Defaults) }

// RNG exposes the game's spawn PRNG to callers that place new dogs or loot.
func (g *Game) RNG() *rand.Rand { return g.rng }
