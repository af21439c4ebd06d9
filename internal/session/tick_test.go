package session

import (
	"testing"

	"dogpark-server/internal/collision"
	"dogpark-server/internal/geom"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
)

func newTestMap(t *testing.T, bagCapacity int, lootTypes []model.LootType, offices []model.Office) *model.Map {
	t.Helper()
	roads := []model.Road{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}}}
	m, err := model.NewMap("m", "M", 1, bagCapacity, roads, nil, offices, lootTypes)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// TestLootPickup is scenario S3.
func TestLootPickup(t *testing.T) {
	m := newTestMap(t, 3, []model.LootType{{Value: 10}}, nil)
	s := NewGameSession(m, loot.NewGenerator(0, 0, nil))
	lootID := s.AddLoot(0, geom.Point{X: 5, Y: 0})

	items := BuildItems(s)
	gatherers := []collision.Gatherer{{DogID: 1, Start: geom.Point{X: 4, Y: 0}, End: geom.Point{X: 6, Y: 0}, Width: 0.6}}
	events := collision.Detect(items, gatherers)
	if len(events) != 1 || events[0].T != 0.5 {
		t.Fatalf("expected one event at t=0.5, got %+v", events)
	}

	dog := NewDog(1, "rex", geom.Point{X: 6, Y: 0}, 3)
	s.AddDog(dog)
	ApplyEvents(s, events, items, gatherers)

	if len(dog.Bag) != 1 {
		t.Fatalf("expected bag to have one entry, got %d", len(dog.Bag))
	}
	if _, stillThere := s.Loot[lootID]; stillThere {
		t.Errorf("expected loot to be removed from the session")
	}
}

// TestBaseDepositScores is scenario S4.
func TestBaseDepositScores(t *testing.T) {
	lootTypes := []model.LootType{{Value: 10}, {Value: 5}}
	offices := []model.Office{{ID: "o1", X: 3, Y: 3}}
	m := newTestMap(t, 5, lootTypes, offices)
	s := NewGameSession(m, loot.NewGenerator(0, 0, nil))

	dog := NewDog(1, "rex", geom.Point{X: 2, Y: 3}, 5)
	dog.Bag = []BagEntry{{LootID: 100, LootType: 0}, {LootID: 101, LootType: 1}}
	s.AddDog(dog)

	items := BuildItems(s)
	gatherers := []collision.Gatherer{{DogID: 1, Start: geom.Point{X: 2, Y: 3}, End: geom.Point{X: 4, Y: 3}, Width: 0.6}}
	events := collision.Detect(items, gatherers)
	if len(events) != 1 {
		t.Fatalf("expected exactly one base event, got %d", len(events))
	}

	ApplyEvents(s, events, items, gatherers)

	if len(dog.Bag) != 0 {
		t.Errorf("expected bag to be empty after deposit, got %v", dog.Bag)
	}
	if dog.Score != 15 {
		t.Errorf("score = %d, want 15", dog.Score)
	}
}

// TestFullBagIgnoresLoot is scenario S5.
func TestFullBagIgnoresLoot(t *testing.T) {
	m := newTestMap(t, 1, []model.LootType{{Value: 10}}, nil)
	s := NewGameSession(m, loot.NewGenerator(0, 0, nil))

	dog := NewDog(1, "rex", geom.Point{X: 1, Y: 0}, 1)
	dog.Bag = []BagEntry{{LootID: 999, LootType: 0}}
	s.AddDog(dog)
	lootID := s.AddLoot(0, geom.Point{X: 2, Y: 0})

	items := BuildItems(s)
	gatherers := []collision.Gatherer{{DogID: 1, Start: geom.Point{X: 1, Y: 0}, End: geom.Point{X: 3, Y: 0}, Width: 0.6}}
	events := collision.Detect(items, gatherers)

	ApplyEvents(s, events, items, gatherers)

	if len(dog.Bag) != 1 || dog.Bag[0].LootID != 999 {
		t.Errorf("expected bag unchanged, got %v", dog.Bag)
	}
	if _, ok := s.Loot[lootID]; !ok {
		t.Errorf("expected loot to remain on the map")
	}
}

func TestAdvanceDogsSkipsRetirementEligibleDogs(t *testing.T) {
	m := newTestMap(t, 3, []model.LootType{{Value: 1}}, nil)
	s := NewGameSession(m, loot.NewGenerator(0, 0, nil))

	stale := NewDog(1, "old", geom.Point{X: 1, Y: 0}, 3)
	stale.IdleForMs = 5000
	stale.Vel = geom.Point{X: 1, Y: 0}
	s.AddDog(stale)

	AdvanceDogs(s, 1000, 1000)

	if stale.Pos != (geom.Point{X: 1, Y: 0}) {
		t.Errorf("dog past idle threshold should not move, got %v", stale.Pos)
	}
}
