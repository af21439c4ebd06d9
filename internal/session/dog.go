package session

import (
	"dogpark-server/internal/geom"
	"dogpark-server/internal/model"
)

// BagEntry is one collected-but-not-yet-deposited loot item.
type BagEntry struct {
	LootID   uint64
	LootType int
}

// Dog is a player's avatar within one GameSession. Field names mirror
// spec §3 directly so the snapshot and HTTP DTOs can map onto them by name.
type Dog struct {
	ID          uint64
	Name        string
	Pos         geom.Point
	Vel         geom.Point
	Dir         model.Direction
	BagCapacity int
	Bag         []BagEntry
	Score       int
	AgeMs       float64
	IdleForMs   float64
	IsIdle      bool
}

// NewDog creates a dog at the given spawn point, initially idle.
func NewDog(id uint64, name string, pos geom.Point, bagCapacity int) *Dog {
	return &Dog{
		ID:          id,
		Name:        name,
		Pos:         pos,
		BagCapacity: bagCapacity,
		IsIdle:      true,
	}
}

// SetVelocity applies a move command. With stop set, the dog halts (zero
// velocity, idle) facing dir; otherwise it moves in dir at speed.
func (d *Dog) SetVelocity(dir model.Direction, stop bool, speed float64) {
	if stop {
		d.Vel = geom.Point{}
		d.Dir = dir
		d.IsIdle = true
		return
	}
	d.Dir = dir
	d.IsIdle = false
	switch dir {
	case model.North:
		d.Vel = geom.Point{X: 0, Y: -speed}
	case model.South:
		d.Vel = geom.Point{X: 0, Y: speed}
	case model.West:
		d.Vel = geom.Point{X: -speed, Y: 0}
	case model.East:
		d.Vel = geom.Point{X: speed, Y: 0}
	}
}

// BagFull reports whether the bag has no remaining capacity.
func (d *Dog) BagFull() bool { return len(d.Bag) >= d.BagCapacity }
