package session

import (
	"math/rand"
	"testing"

	"dogpark-server/internal/geom"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
)

func twoMaps(t *testing.T) []*model.Map {
	t.Helper()
	roads := []model.Road{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 5, Y: 0}}}
	m1, err := model.NewMap("b-map", "B", 1, 1, roads, nil, nil, []model.LootType{{Value: 1}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	m2, err := model.NewMap("a-map", "A", 1, 1, roads, nil, nil, []model.LootType{{Value: 1}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return []*model.Map{m1, m2}
}

func TestSessionForCreatesLazilyAndCaches(t *testing.T) {
	game := NewGame(twoMaps(t), Defaults{}, loot.Deterministic, rand.New(rand.NewSource(1)))

	if len(game.Sessions()) != 0 {
		t.Fatalf("expected no sessions before first join")
	}
	s1, err := game.SessionFor("a-map")
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	s2, err := game.SessionFor("a-map")
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	if s1 != s2 {
		t.Errorf("expected the same session instance on repeated calls")
	}
}

func TestSessionForUnknownMapErrors(t *testing.T) {
	game := NewGame(twoMaps(t), Defaults{}, loot.Deterministic, rand.New(rand.NewSource(1)))
	if _, err := game.SessionFor("nope"); err == nil {
		t.Errorf("expected an error for an unknown map id")
	}
}

func TestSessionsSortedByMapID(t *testing.T) {
	game := NewGame(twoMaps(t), Defaults{}, loot.Deterministic, rand.New(rand.NewSource(1)))
	if _, err := game.SessionFor("b-map"); err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	if _, err := game.SessionFor("a-map"); err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	sessions := game.Sessions()
	if len(sessions) != 2 || sessions[0].MapID != "a-map" || sessions[1].MapID != "b-map" {
		t.Fatalf("expected sessions sorted by map id, got %+v", sessions)
	}
}

func TestSpeedAndBagCapacityFallToDefaults(t *testing.T) {
	roads := []model.Road{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 5, Y: 0}}}
	overridden, err := model.NewMap("m", "M", 9, 7, roads, nil, nil, []model.LootType{{Value: 1}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	fallback, err := model.NewMap("f", "F", 0, 0, roads, nil, nil, []model.LootType{{Value: 1}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	defaults := Defaults{DogSpeed: 2, BagCapacity: 3}
	game := NewGame([]*model.Map{overridden, fallback}, defaults, loot.Deterministic, rand.New(rand.NewSource(1)))

	if got := game.Speed(overridden); got != 9 {
		t.Errorf("Speed(overridden) = %v, want 9", got)
	}
	if got := game.BagCapacity(overridden); got != 7 {
		t.Errorf("BagCapacity(overridden) = %v, want 7", got)
	}
	if got := game.Speed(fallback); got != 2 {
		t.Errorf("Speed(fallback) = %v, want default 2", got)
	}
	if got := game.BagCapacity(fallback); got != 3 {
		t.Errorf("BagCapacity(fallback) = %v, want default 3", got)
	}
}

func TestNextDogIDMonotonicAndObserve(t *testing.T) {
	game := NewGame(twoMaps(t), Defaults{}, loot.Deterministic, rand.New(rand.NewSource(1)))
	id1 := game.NextDogID()
	id2 := game.NextDogID()
	if id2 != id1+1 {
		t.Fatalf("expected monotonic ids, got %d then %d", id1, id2)
	}
	game.ObserveDogID(100)
	id3 := game.NextDogID()
	if id3 != 101 {
		t.Errorf("ObserveDogID(100) then NextDogID() = %d, want 101", id3)
	}
	game.ObserveDogID(5) // must not move the counter backwards
	id4 := game.NextDogID()
	if id4 != 102 {
		t.Errorf("ObserveDogID with a lower id moved the counter: got %d, want 102", id4)
	}
}
