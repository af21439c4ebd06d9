package session

import (
	"dogpark-server/internal/geom"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
)

// LootEntry is one loot instance placed on the map.
type LootEntry struct {
	Type int
	Pos  geom.Point
}

// GameSession is the live state of one map: dogs, loose loot, and the
// per-session loot generator. One session is created per map on first join.
type GameSession struct {
	MapID string
	Map   *model.Map

	Dogs map[uint64]*Dog
	Loot map[uint64]LootEntry

	NextLootID uint64
	Generator  *loot.Generator
}

// NewGameSession creates an empty session bound to m.
func NewGameSession(m *model.Map, gen *loot.Generator) *GameSession {
	return &GameSession{
		MapID:     m.ID,
		Map:       m,
		Dogs:      make(map[uint64]*Dog),
		Loot:      make(map[uint64]LootEntry),
		Generator: gen,
	}
}

// AddDog registers a new dog in the session.
func (s *GameSession) AddDog(d *Dog) { s.Dogs[d.ID] = d }

// RemoveDog drops a dog from the session, e.g. on retirement.
func (s *GameSession) RemoveDog(id uint64) { delete(s.Dogs, id) }

// AddLoot places a new loot entry and returns its id.
func (s *GameSession) AddLoot(typeIndex int, pos geom.Point) uint64 {
	id := s.NextLootID
	s.NextLootID++
	s.Loot[id] = LootEntry{Type: typeIndex, Pos: pos}
	return id
}
