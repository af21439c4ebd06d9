package session

import (
	"math"
	"testing"

	"dogpark-server/internal/geom"
)

func gridFromRoads(roads ...[2]geom.Point) *geom.RoadGrid {
	grid := geom.NewRoadGrid()
	for _, r := range roads {
		lo, hi := r[0], r[1]
		if lo.Y == hi.Y {
			x0, x1 := int(lo.X), int(hi.X)
			if x0 > x1 {
				x0, x1 = x1, x0
			}
			for x := x0; x <= x1; x++ {
				grid.AddRoad([]geom.Cell{{X: x, Y: int(lo.Y)}})
			}
			continue
		}
		y0, y1 := int(lo.Y), int(hi.Y)
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			grid.AddRoad([]geom.Cell{{X: int(lo.X), Y: y}})
		}
	}
	return grid
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestMoveDogDeadEndClamp is scenario S1: a straight horizontal road, a dog
// running off the end gets clamped and stopped.
func TestMoveDogDeadEndClamp(t *testing.T) {
	grid := gridFromRoads([2]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	d := &Dog{Pos: geom.Point{X: 5, Y: 0}, Vel: geom.Point{X: 10, Y: 0}}

	MoveDog(d, 2000, grid)

	if !almostEqual(d.Pos.X, 10.4) || !almostEqual(d.Pos.Y, 0) {
		t.Errorf("Pos = %v, want (10.4, 0)", d.Pos)
	}
	if !d.IsIdle {
		t.Errorf("expected dog to be idle after hitting dead end")
	}
	if d.Vel != (geom.Point{}) {
		t.Errorf("expected velocity to be zeroed, got %v", d.Vel)
	}
}

// TestMoveDogThroughIntersection is scenario S2: a dog approaching a
// perpendicular road keeps moving straight through the intersection.
func TestMoveDogThroughIntersection(t *testing.T) {
	grid := gridFromRoads(
		[2]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		[2]geom.Point{{X: 5, Y: 0}, {X: 5, Y: 10}},
	)
	d := &Dog{Pos: geom.Point{X: 4.9, Y: 0}, Vel: geom.Point{X: 5, Y: 0}}

	MoveDog(d, 200, grid)

	if !almostEqual(d.Pos.X, 5.9) || !almostEqual(d.Pos.Y, 0) {
		t.Errorf("Pos = %v, want (5.9, 0)", d.Pos)
	}
	if d.IsIdle {
		t.Errorf("expected dog to still be moving")
	}
	if d.Vel == (geom.Point{}) {
		t.Errorf("expected velocity to remain nonzero")
	}
}

func TestMoveDogStationaryUntouched(t *testing.T) {
	grid := gridFromRoads([2]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	d := &Dog{Pos: geom.Point{X: 5, Y: 0}}

	MoveDog(d, 1000, grid)

	if d.Pos != (geom.Point{X: 5, Y: 0}) {
		t.Errorf("stationary dog moved: %v", d.Pos)
	}
}
