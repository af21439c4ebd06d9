// Package collision implements the swept point-vs-segment intersection
// pass described in spec §4.5: dogs sweep fat segments ("gatherers") over a
// tick, and loot/base "items" are checked for intersection with each one.
package collision

import (
	"sort"

	"dogpark-server/internal/geom"
)

// ItemKind distinguishes loot from base items in an Event, so the tick
// pipeline can apply spec §4.6 without a type switch on interface{}.
type ItemKind int

const (
	// LootItem carries LootID/LootType and has width 0.
	LootItem ItemKind = iota
	// BaseItem carries an office index and has width BaseRadius.
	BaseItem
)

// Item is a stationary point the gatherers are checked against.
type Item struct {
	Kind ItemKind
	Pos  geom.Point
	Width float64

	// LootID/LootType are populated when Kind == LootItem.
	LootID   uint64
	LootType int

	// OfficeIndex is populated when Kind == BaseItem.
	OfficeIndex int
}

// Gatherer is the fat-radius segment swept by one dog over one tick.
type Gatherer struct {
	DogID uint64
	Start geom.Point
	End   geom.Point
	Width float64
}

// Event records one item being reached by one gatherer, per spec §4.5.
type Event struct {
	ItemIndex    int
	GathererIndex int
	SqDistance   float64
	T            float64
}

// Detect returns every (item, gatherer) pair whose closest approach lies
// within their combined width and whose t lies in [0,1], sorted ascending
// by t with ties broken by insertion (discovery) order — a stable sort over
// the enumeration order (gatherer by gatherer, items in list order within
// each gatherer) satisfies that tie-break.
func Detect(items []Item, gatherers []Gatherer) []Event {
	var events []Event
	for gi, g := range gatherers {
		v := g.End.Sub(g.Start)
		vv := v.SqLen()
		if vv == 0 {
			continue
		}
		for ii, it := range items {
			u := it.Pos.Sub(g.Start)
			uv := u.Dot(v)
			t := uv / vv
			if t < 0 || t > 1 {
				continue
			}
			d2 := u.SqLen() - uv*uv/vv
			r := it.Width + g.Width
			if d2 > r*r {
				continue
			}
			events = append(events, Event{ItemIndex: ii, GathererIndex: gi, SqDistance: d2, T: t})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].T < events[j].T })
	return events
}
