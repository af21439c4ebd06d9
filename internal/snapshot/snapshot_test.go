package snapshot

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"dogpark-server/internal/geom"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
	"dogpark-server/internal/players"
	"dogpark-server/internal/session"
)

func buildTestMap(t *testing.T) *model.Map {
	t.Helper()
	roads := []model.Road{{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}}}
	offices := []model.Office{{ID: "o1", X: 0, Y: 0}}
	m, err := model.NewMap("m1", "Map One", 2, 3, roads, nil, offices, []model.LootType{{Value: 1}, {Value: 5}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// TestSaveLoadRoundTrip covers spec §8 invariant 5: Restore(Save(s)) == s
// for the fields that persist across a restart.
func TestSaveLoadRoundTrip(t *testing.T) {
	m := buildTestMap(t)
	defaults := session.Defaults{DogSpeed: 2, BagCapacity: 3, LootPeriod: 1000, LootProbability: 0.5, MaxIdleMs: 60000}
	game := session.NewGame([]*model.Map{m}, defaults, loot.Deterministic, rand.New(rand.NewSource(1)))
	registry := players.NewRegistry(11, 22)

	gs, err := game.SessionFor("m1")
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	gs.Generator.TimeWithoutLoot = 250
	lootID := gs.AddLoot(1, geom.Point{X: 3, Y: 0})

	dog := session.NewDog(game.NextDogID(), "rex", geom.Point{X: 5, Y: 0}, 3)
	dog.Vel = geom.Point{X: 2, Y: 0}
	dog.Dir = model.East
	dog.Bag = []session.BagEntry{{LootID: 99, LootType: 0}}
	dog.Score = 7
	dog.AgeMs = 12345
	dog.IdleForMs = 500
	dog.IsIdle = false
	gs.AddDog(dog)

	token, _ := registry.Join(dog.ID, "m1", dog.Name)

	dir := t.TempDir()
	path := filepath.Join(dir, "state.bin")
	if err := SaveState(path, State{Game: game, Players: registry}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "temp_state.bin")); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be gone after a successful save")
	}

	maps := map[string]*model.Map{"m1": m}
	loadedGame, loadedPlayers, err := LoadState(path, maps, defaults, loot.Deterministic, rand.New(rand.NewSource(1)), 11, 22)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	loadedSession, err := loadedGame.SessionFor("m1")
	if err != nil {
		t.Fatalf("SessionFor after load: %v", err)
	}
	if loadedSession.Generator.TimeWithoutLoot != 250 {
		t.Errorf("TimeWithoutLoot = %v, want 250", loadedSession.Generator.TimeWithoutLoot)
	}
	entry, ok := loadedSession.Loot[lootID]
	if !ok {
		t.Fatalf("loot %d missing after round trip", lootID)
	}
	if entry.Type != 1 || entry.Pos != (geom.Point{X: 3, Y: 0}) {
		t.Errorf("loot entry mismatch: %+v", entry)
	}

	loadedDog, ok := loadedSession.Dogs[dog.ID]
	if !ok {
		t.Fatalf("dog %d missing after round trip", dog.ID)
	}
	if loadedDog.Name != dog.Name || loadedDog.Pos != dog.Pos || loadedDog.Vel != dog.Vel ||
		loadedDog.Dir != dog.Dir || loadedDog.BagCapacity != dog.BagCapacity ||
		loadedDog.Score != dog.Score || loadedDog.AgeMs != dog.AgeMs ||
		loadedDog.IdleForMs != dog.IdleForMs || loadedDog.IsIdle != dog.IsIdle {
		t.Errorf("dog mismatch after round trip: got %+v, want %+v", loadedDog, dog)
	}
	if len(loadedDog.Bag) != 1 || loadedDog.Bag[0] != dog.Bag[0] {
		t.Errorf("bag mismatch after round trip: got %+v", loadedDog.Bag)
	}

	p, ok := loadedPlayers.Lookup(token)
	if !ok {
		t.Fatalf("token %q did not resolve after round trip", token)
	}
	if p.ID != dog.ID || p.MapID != "m1" || p.Name != dog.Name {
		t.Errorf("player mismatch after round trip: %+v", p)
	}
}

func TestLoadStateMissingFileReturnsNotExist(t *testing.T) {
	maps := map[string]*model.Map{}
	_, _, err := LoadState(filepath.Join(t.TempDir(), "missing.bin"), maps, session.Defaults{}, loot.Deterministic, rand.New(rand.NewSource(1)), 1, 2)
	if !os.IsNotExist(err) {
		t.Errorf("expected an os.IsNotExist error, got %v", err)
	}
}

func TestLoadStateRejectsUnknownMap(t *testing.T) {
	m := buildTestMap(t)
	defaults := session.Defaults{DogSpeed: 2, BagCapacity: 3}
	game := session.NewGame([]*model.Map{m}, defaults, loot.Deterministic, rand.New(rand.NewSource(1)))
	registry := players.NewRegistry(1, 2)
	if _, err := game.SessionFor("m1"); err != nil {
		t.Fatalf("SessionFor: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "state.bin")
	if err := SaveState(path, State{Game: game, Players: registry}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	// Load against a catalog that no longer has the map the snapshot refers to.
	_, _, err := LoadState(path, map[string]*model.Map{}, defaults, loot.Deterministic, rand.New(rand.NewSource(1)), 1, 2)
	if err == nil {
		t.Errorf("expected an error loading a snapshot that references an unknown map")
	}
}

// TestLoadStateRejectsOrphanedPlayerDogReference covers spec §4.9's
// restore-time validation: a player row surviving with no matching dog in
// its map's session (e.g. the dog was dropped from the dogs section, or the
// file was corrupted) must abort the load rather than restore a token that
// resolves to nothing.
func TestLoadStateRejectsOrphanedPlayerDogReference(t *testing.T) {
	m := buildTestMap(t)
	defaults := session.Defaults{DogSpeed: 2, BagCapacity: 3}
	game := session.NewGame([]*model.Map{m}, defaults, loot.Deterministic, rand.New(rand.NewSource(1)))
	registry := players.NewRegistry(1, 2)

	gs, err := game.SessionFor("m1")
	if err != nil {
		t.Fatalf("SessionFor: %v", err)
	}
	// The registry knows about a player whose dog was never added to the
	// session's dog map.
	orphanID := game.NextDogID()
	registry.Join(orphanID, "m1", "ghost")
	if _, ok := gs.Dogs[orphanID]; ok {
		t.Fatalf("test setup invariant violated: dog must not exist in the session")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "state.bin")
	if err := SaveState(path, State{Game: game, Players: registry}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	maps := map[string]*model.Map{"m1": m}
	_, _, err = LoadState(path, maps, defaults, loot.Deterministic, rand.New(rand.NewSource(1)), 1, 2)
	if err == nil {
		t.Errorf("expected an error loading a snapshot whose player references a nonexistent dog")
	}
}
