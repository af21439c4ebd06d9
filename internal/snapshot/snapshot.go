package snapshot

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"dogpark-server/internal/geom"
	"dogpark-server/internal/loot"
	"dogpark-server/internal/model"
	"dogpark-server/internal/players"
	"dogpark-server/internal/session"
)

// State is everything SaveState/LoadState round-trip: game sessions,
// players, and the token registry (spec §4.9).
type State struct {
	Game    *session.Game
	Players *players.Registry
}

// SaveState serializes state to <dir>/temp_<name>, then atomically renames
// it over path. Per spec §4.9/§7, a failed save is logged by the caller and
// must never disturb a previously-written snapshot: the rename only
// happens once the temp file is fully written and closed.
func SaveState(path string, state State) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "temp_"+filepath.Base(path))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}

	if err := writeState(f, state); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}
	return nil
}

func writeState(w io.Writer, state State) error {
	bw := bufferedWriter(w)
	if err := writeHeader(bw); err != nil {
		return err
	}

	sessions := state.Game.Sessions()
	if err := writeUint32(bw, uint32(len(sessions))); err != nil {
		return err
	}
	for _, s := range sessions {
		if err := writeSession(bw, s); err != nil {
			return err
		}
	}

	allPlayers := state.Players.All()
	if err := writeUint32(bw, uint32(len(allPlayers))); err != nil {
		return err
	}
	for _, p := range allPlayers {
		if err := writeUint64(bw, p.ID); err != nil {
			return err
		}
		if err := writeString(bw, p.MapID); err != nil {
			return err
		}
		if err := writeString(bw, p.Name); err != nil {
			return err
		}
		token, _ := state.Players.TokenFor(p.ID)
		if err := writeString(bw, token); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeSession(w io.Writer, s *session.GameSession) error {
	if err := writeString(w, s.MapID); err != nil {
		return err
	}
	if err := writeFloat64(w, s.Generator.TimeWithoutLoot); err != nil {
		return err
	}
	if err := writeUint64(w, s.NextLootID); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(s.Loot))); err != nil {
		return err
	}
	for id, l := range s.Loot {
		if err := writeUint64(w, id); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(l.Type)); err != nil {
			return err
		}
		if err := writeFloat64(w, l.Pos.X); err != nil {
			return err
		}
		if err := writeFloat64(w, l.Pos.Y); err != nil {
			return err
		}
	}

	if err := writeUint32(w, uint32(len(s.Dogs))); err != nil {
		return err
	}
	for _, d := range s.Dogs {
		if err := writeDog(w, d); err != nil {
			return err
		}
	}
	return nil
}

func writeDog(w io.Writer, d *session.Dog) error {
	fns := []func() error{
		func() error { return writeUint64(w, d.ID) },
		func() error { return writeString(w, d.Name) },
		func() error { return writeFloat64(w, d.Pos.X) },
		func() error { return writeFloat64(w, d.Pos.Y) },
		func() error { return writeFloat64(w, d.Vel.X) },
		func() error { return writeFloat64(w, d.Vel.Y) },
		func() error { _, err := w.Write([]byte{byte(d.Dir)}); return err },
		func() error { return writeUint32(w, uint32(d.BagCapacity)) },
		func() error { return writeUint32(w, uint32(len(d.Bag))) },
	}
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	for _, entry := range d.Bag {
		if err := writeUint64(w, entry.LootID); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(entry.LootType)); err != nil {
			return err
		}
	}
	if err := writeUint32(w, uint32(d.Score)); err != nil {
		return err
	}
	if err := writeFloat64(w, d.AgeMs); err != nil {
		return err
	}
	if err := writeFloat64(w, d.IdleForMs); err != nil {
		return err
	}
	return writeBool(w, d.IsIdle)
}

// LoadState restores a snapshot written by SaveState. Every session's map
// id must exist in maps, every player must reference an existing session
// and dog, and every token must reference an existing player — any
// violation aborts the load, per spec §4.9.
func LoadState(path string, maps map[string]*model.Map, defaults session.Defaults, policy loot.SpawnPolicy, rng *rand.Rand, tokenSeedA, tokenSeedB int64) (*session.Game, *players.Registry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()

	br := bufferedReader(f)
	if err := readHeader(br); err != nil {
		return nil, nil, err
	}

	game := session.NewGame(mapSlice(maps), defaults, policy, rng)

	sessionCount, err := readUint32(br)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: read session count: %w", err)
	}
	restoredSessions := make(map[string]*session.GameSession, sessionCount)
	for i := uint32(0); i < sessionCount; i++ {
		s, err := readSession(br, game, maps)
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot: session %d: %w", i, err)
		}
		restoredSessions[s.MapID] = s
	}

	registry := players.NewRegistry(tokenSeedA, tokenSeedB)
	playerCount, err := readUint32(br)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: read player count: %w", err)
	}
	for i := uint32(0); i < playerCount; i++ {
		id, err := readUint64(br)
		if err != nil {
			return nil, nil, err
		}
		mapID, err := readString(br)
		if err != nil {
			return nil, nil, err
		}
		name, err := readString(br)
		if err != nil {
			return nil, nil, err
		}
		token, err := readString(br)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := maps[mapID]; !ok {
			return nil, nil, fmt.Errorf("snapshot: player %d references unknown map %q", id, mapID)
		}
		restoredSession, ok := restoredSessions[mapID]
		if !ok {
			return nil, nil, fmt.Errorf("snapshot: player %d references map %q with no session in this snapshot", id, mapID)
		}
		if _, ok := restoredSession.Dogs[id]; !ok {
			return nil, nil, fmt.Errorf("snapshot: player %d references nonexistent dog in map %q", id, mapID)
		}
		registry.RestorePlayer(&players.Player{ID: id, MapID: mapID, Name: name})
		registry.RestoreToken(token, id)
	}

	return game, registry, nil
}

func mapSlice(maps map[string]*model.Map) []*model.Map {
	out := make([]*model.Map, 0, len(maps))
	for _, m := range maps {
		out = append(out, m)
	}
	return out
}

func readSession(r io.Reader, game *session.Game, maps map[string]*model.Map) (*session.GameSession, error) {
	mapID, err := readString(r)
	if err != nil {
		return nil, err
	}
	if _, ok := maps[mapID]; !ok {
		return nil, fmt.Errorf("references unknown map %q", mapID)
	}

	timeWithoutLoot, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	nextLootID, err := readUint64(r)
	if err != nil {
		return nil, err
	}

	s, err := game.SessionFor(mapID)
	if err != nil {
		return nil, err
	}
	s.Generator.TimeWithoutLoot = timeWithoutLoot
	s.NextLootID = nextLootID

	lootCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < lootCount; i++ {
		id, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		typeIdx, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		x, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		y, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		s.Loot[id] = session.LootEntry{Type: int(typeIdx), Pos: geom.Point{X: x, Y: y}}
	}

	dogCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < dogCount; i++ {
		d, err := readDog(r)
		if err != nil {
			return nil, err
		}
		s.AddDog(d)
		game.ObserveDogID(d.ID)
	}

	return s, nil
}

func readDog(r io.Reader) (*session.Dog, error) {
	d := &session.Dog{}

	var err error
	if d.ID, err = readUint64(r); err != nil {
		return nil, err
	}
	if d.Name, err = readString(r); err != nil {
		return nil, err
	}
	x, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	y, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	d.Pos = geom.Point{X: x, Y: y}
	vx, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	vy, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	d.Vel = geom.Point{X: vx, Y: vy}

	dirByte := make([]byte, 1)
	if _, err := io.ReadFull(r, dirByte); err != nil {
		return nil, err
	}
	d.Dir = model.Direction(dirByte[0])

	bagCap, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	d.BagCapacity = int(bagCap)

	bagLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	d.Bag = make([]session.BagEntry, 0, bagLen)
	for i := uint32(0); i < bagLen; i++ {
		lootID, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		lootType, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		d.Bag = append(d.Bag, session.BagEntry{LootID: lootID, LootType: int(lootType)})
	}

	score, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	d.Score = int(score)

	if d.AgeMs, err = readFloat64(r); err != nil {
		return nil, err
	}
	if d.IdleForMs, err = readFloat64(r); err != nil {
		return nil, err
	}
	if d.IsIdle, err = readBool(r); err != nil {
		return nil, err
	}
	return d, nil
}
