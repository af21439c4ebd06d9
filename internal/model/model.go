// Package model holds the static, load-time topology of a map: roads,
// buildings, offices, bases and loot-type descriptors. Nothing in this
// package is mutated after Map construction.
package model

import (
	"fmt"

	"dogpark-server/internal/geom"
)

// Direction is the facing of a Dog.
type Direction byte

const (
	North Direction = iota
	South
	West
	East
)

func (d Direction) String() string {
	switch d {
	case North:
		return "U"
	case South:
		return "D"
	case West:
		return "L"
	case East:
		return "R"
	default:
		return ""
	}
}

// ParseDirection maps a move-command letter ("U","D","L","R") to a Direction.
// The empty string is not a direction; callers treat it as "stop".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "U":
		return North, true
	case "D":
		return South, true
	case "L":
		return West, true
	case "R":
		return East, true
	default:
		return 0, false
	}
}

// Road is a strictly horizontal or vertical segment with integer endpoints.
type Road struct {
	Start geom.Point
	End   geom.Point
}

// Horizontal reports whether the road runs along the x axis.
func (r Road) Horizontal() bool { return r.Start.Y == r.End.Y }

// Cells returns every integer lattice cell the road covers, inclusive of
// both endpoints.
func (r Road) Cells() []geom.Cell {
	var cells []geom.Cell
	if r.Horizontal() {
		lo, hi := int(r.Start.X), int(r.End.X)
		if lo > hi {
			lo, hi = hi, lo
		}
		y := int(r.Start.Y)
		for x := lo; x <= hi; x++ {
			cells = append(cells, geom.Cell{X: x, Y: y})
		}
		return cells
	}
	lo, hi := int(r.Start.Y), int(r.End.Y)
	if lo > hi {
		lo, hi = hi, lo
	}
	x := int(r.Start.X)
	for y := lo; y <= hi; y++ {
		cells = append(cells, geom.Cell{X: x, Y: y})
	}
	return cells
}

// Building is an axis-aligned rectangle obstacle, rendered by clients only.
type Building struct {
	X, Y, W, H int
}

// Office is a client-facing placement marker tied 1:1 to a Base.
type Office struct {
	ID              string
	X, Y            int
	OffsetX, OffsetY int
}

// Base is a deposit point co-located with an Office.
type Base struct {
	Pos    geom.Point
	Radius float64
}

// BaseRadius is fixed by the spec: one base per office, radius 0.5.
const BaseRadius = 0.5

// LootType describes one kind of collectible; only Value matters to scoring,
// the rest of the object is opaque client-rendering data.
type LootType struct {
	Value int
	Raw   map[string]any
}

// Map is the immutable static topology of one playable map.
type Map struct {
	ID             string
	Name           string
	DogSpeed       float64
	BagCapacity    int
	Roads          []Road
	Buildings      []Building
	Offices        []Office
	LootTypes      []LootType
	Bases          []Base
	Grid           *geom.RoadGrid
}

// NewMap builds a Map and its derived RoadGrid from static definitions.
// One Base is created per Office at BaseRadius, per spec §3.
func NewMap(id, name string, dogSpeed float64, bagCapacity int, roads []Road, buildings []Building, offices []Office, lootTypes []LootType) (*Map, error) {
	if id == "" {
		return nil, fmt.Errorf("model: map id must not be empty")
	}
	if len(lootTypes) == 0 {
		return nil, fmt.Errorf("model: map %q must declare at least one loot type", id)
	}
	grid := geom.NewRoadGrid()
	for _, r := range roads {
		grid.AddRoad(r.Cells())
	}
	bases := make([]Base, 0, len(offices))
	for _, o := range offices {
		bases = append(bases, Base{
			Pos:    geom.Point{X: float64(o.X), Y: float64(o.Y)},
			Radius: BaseRadius,
		})
	}
	return &Map{
		ID:          id,
		Name:        name,
		DogSpeed:    dogSpeed,
		BagCapacity: bagCapacity,
		Roads:       roads,
		Buildings:   buildings,
		Offices:     offices,
		LootTypes:   lootTypes,
		Bases:       bases,
		Grid:        grid,
	}, nil
}

// LootValue returns the score value of a loot type index, or 0 and false if
// out of range.
func (m *Map) LootValue(typeIndex int) (int, bool) {
	if typeIndex < 0 || typeIndex >= len(m.LootTypes) {
		return 0, false
	}
	return m.LootTypes[typeIndex].Value, true
}
