package session

import (
	"math"

	"dogpark-server/internal/geom"
)

const (
	tolerance = 0.4
	epsilon   = 1e-9
)

// MoveDog advances d along the road network by dt milliseconds, per the
// axis-independent algorithm in spec §4.4 (x axis first, then y). On
// hitting a dead end it clamps to the road boundary and stops the dog.
func MoveDog(d *Dog, dt float64, grid *geom.RoadGrid) {
	moveAxis(d, dt, grid, true)
	moveAxis(d, dt, grid, false)
}

// moveAxis performs one axis of the spec §4.4 algorithm. xAxis selects
// whether this call advances X (with Y as the perpendicular axis) or Y.
func moveAxis(d *Dog, dt float64, grid *geom.RoadGrid, xAxis bool) {
	v := d.Vel.X
	if !xAxis {
		v = d.Vel.Y
	}
	if v == 0 {
		return
	}

	pos := d.Pos.X
	if !xAxis {
		pos = d.Pos.Y
	}

	cell := d.Pos.Round()
	cellAxis := cell.X
	if !xAxis {
		cellAxis = cell.Y
	}

	offsetOut := math.Abs(pos-float64(cellAxis)) > tolerance+epsilon
	onPerpendicular := perpendicularNeighborsExist(grid, cell, xAxis)

	target := pos + v*dt/1000
	step := geom.Sign(v)
	targetCell := int(math.Round(target))

	blocked := false
	if !(offsetOut && onPerpendicular) {
		for cellAxis != targetCell {
			next := cellAxis + step
			if !cellInGrid(grid, cell, xAxis, next) {
				blocked = true
				break
			}
			cellAxis = next
		}
	} else {
		blocked = true
	}

	diff := target - float64(cellAxis)

	nextInGrid := cellInGrid(grid, cell, xAxis, cellAxis+step)
	if (blocked || !nextInGrid) && math.Abs(diff) > tolerance {
		d.Vel = geom.Point{}
		d.IsIdle = true
		diff = geom.Clamp(diff, -tolerance, tolerance)
	}

	result := float64(cellAxis) + diff
	if xAxis {
		d.Pos.X = result
	} else {
		d.Pos.Y = result
	}
}

// perpendicularNeighborsExist reports whether either lateral neighbor
// (perpendicular to the axis being advanced) of cell is on the grid.
func perpendicularNeighborsExist(grid *geom.RoadGrid, cell geom.Cell, xAxis bool) bool {
	if xAxis {
		return grid.Has(geom.Cell{X: cell.X, Y: cell.Y + 1}) || grid.Has(geom.Cell{X: cell.X, Y: cell.Y - 1})
	}
	return grid.Has(geom.Cell{X: cell.X + 1, Y: cell.Y}) || grid.Has(geom.Cell{X: cell.X - 1, Y: cell.Y})
}

// cellInGrid reports whether the cell at the given axis coordinate (with the
// perpendicular coordinate held fixed from cell) is covered.
func cellInGrid(grid *geom.RoadGrid, cell geom.Cell, xAxis bool, axisValue int) bool {
	if xAxis {
		return grid.Has(geom.Cell{X: axisValue, Y: cell.Y})
	}
	return grid.Has(geom.Cell{X: cell.X, Y: axisValue})
}
