package session

import (
	"sort"

	"dogpark-server/internal/collision"
)

// AdvanceDogs ages and moves every dog whose idle_for is still below
// maxIdleMs, per spec §4.7 step 2. Dogs at or beyond the threshold are left
// untouched so retirement can observe their final state. Returns one
// gatherer per dog that actually displaced this tick.
func AdvanceDogs(s *GameSession, dt, maxIdleMs float64) []collision.Gatherer {
	// Stable dog iteration order keeps gatherer indices (and therefore
	// event tie-breaks) deterministic across runs for the same session state.
	ids := make([]uint64, 0, len(s.Dogs))
	for id := range s.Dogs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var gatherers []collision.Gatherer
	for _, id := range ids {
		d := s.Dogs[id]
		if d.IdleForMs >= maxIdleMs {
			continue
		}

		d.AgeMs += dt
		if d.IsIdle {
			d.IdleForMs += dt
		} else {
			d.IdleForMs = 0
		}

		oldPos := d.Pos
		MoveDog(d, dt, s.Map.Grid)
		if d.Pos != oldPos {
			gatherers = append(gatherers, collision.Gatherer{
				DogID: d.ID,
				Start: oldPos,
				End:   d.Pos,
				Width: 0.6,
			})
		}
	}
	return gatherers
}

// BuildItems flattens loose loot and bases into the collision item list, per
// spec §4.5 ("items = loot ++ bases").
func BuildItems(s *GameSession) []collision.Item {
	items := make([]collision.Item, 0, len(s.Loot)+len(s.Map.Bases))

	lootIDs := make([]uint64, 0, len(s.Loot))
	for id := range s.Loot {
		lootIDs = append(lootIDs, id)
	}
	sort.Slice(lootIDs, func(i, j int) bool { return lootIDs[i] < lootIDs[j] })

	for _, id := range lootIDs {
		l := s.Loot[id]
		items = append(items, collision.Item{
			Kind:     collision.LootItem,
			Pos:      l.Pos,
			Width:    0,
			LootID:   id,
			LootType: l.Type,
		})
	}
	for i, b := range s.Map.Bases {
		items = append(items, collision.Item{
			Kind:        collision.BaseItem,
			Pos:         b.Pos,
			Width:       b.Radius,
			OfficeIndex: i,
		})
	}
	return items
}

// ApplyEvents resolves collision events in order per spec §4.6: loot is
// picked up if the bag has room, bases empty the bag into score.
func ApplyEvents(s *GameSession, events []collision.Event, items []collision.Item, gatherers []collision.Gatherer) {
	for _, ev := range events {
		dogID := gatherers[ev.GathererIndex].DogID
		dog, ok := s.Dogs[dogID]
		if !ok {
			continue
		}
		item := items[ev.ItemIndex]

		switch item.Kind {
		case collision.LootItem:
			if dog.BagFull() {
				continue
			}
			if _, stillThere := s.Loot[item.LootID]; !stillThere {
				continue
			}
			dog.Bag = append(dog.Bag, BagEntry{LootID: item.LootID, LootType: item.LootType})
			delete(s.Loot, item.LootID)
		case collision.BaseItem:
			for _, entry := range dog.Bag {
				if v, ok := s.Map.LootValue(entry.LootType); ok {
					dog.Score += v
				}
			}
			dog.Bag = dog.Bag[:0]
		}
	}
}
