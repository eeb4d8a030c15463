package ai

import (
	"sort"

	"github.com/wartide/arena/internal/battle"
)

// reachable returns the unit's reachable cells (cost ≥ 1) in a fixed
// row-major order so cell selection is deterministic.
func reachable(c *Context) []battle.Cell {
	costs := c.State.ReachableCells(c.Unit)
	cells := make([]battle.Cell, 0, len(costs))
	for cell, cost := range costs {
		if cost == 0 {
			continue
		}
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// bestCellToward picks the reachable cell minimizing remaining Manhattan
// distance to the goal. Returns false when no reachable cell improves on
// staying put.
func bestCellToward(c *Context, goalX, goalY int) (battle.Cell, bool) {
	best := battle.Cell{X: c.Unit.X, Y: c.Unit.Y}
	bestDist := battle.Manhattan(c.Unit.X, c.Unit.Y, goalX, goalY)
	found := false
	for _, cell := range reachable(c) {
		d := battle.Manhattan(cell.X, cell.Y, goalX, goalY)
		if d < bestDist {
			best = cell
			bestDist = d
			found = true
		}
	}
	return best, found
}

// bestCellAway picks the reachable cell maximizing the minimum Manhattan
// distance to any enemy. Returns false when the unit cannot improve its
// separation.
func bestCellAway(c *Context) (battle.Cell, bool) {
	enemies := c.Enemies()
	if len(enemies) == 0 {
		return battle.Cell{}, false
	}
	separation := func(x, y int) int {
		min := -1
		for _, e := range enemies {
			d := battle.Manhattan(x, y, e.X, e.Y)
			if min < 0 || d < min {
				min = d
			}
		}
		return min
	}
	best := battle.Cell{}
	bestSep := separation(c.Unit.X, c.Unit.Y)
	found := false
	for _, cell := range reachable(c) {
		if sep := separation(cell.X, cell.Y); sep > bestSep {
			best = cell
			bestSep = sep
			found = true
		}
	}
	return best, found
}

// bestCellAtRange picks the reachable cell whose Chebyshev distance to
// the target is closest to the preferred range, never closer than it.
// Used by ranged units to hold their distance.
func bestCellAtRange(c *Context, target *battle.Unit, preferred int) (battle.Cell, bool) {
	gap := func(x, y int) int {
		d := battle.Chebyshev(x, y, target.X, target.Y)
		if d < preferred {
			return 1000 + (preferred - d) // too close is worse than too far
		}
		return d - preferred
	}
	best := battle.Cell{}
	bestGap := gap(c.Unit.X, c.Unit.Y)
	found := false
	for _, cell := range reachable(c) {
		if g := gap(cell.X, cell.Y); g < bestGap {
			best = cell
			bestGap = g
			found = true
		}
	}
	return best, found
}

// mostWoundedAlly returns the lowest-HP-fraction ally, nil when every
// ally is healthy or there are none.
func mostWoundedAlly(c *Context) *battle.Unit {
	var best *battle.Unit
	bestFrac := 1.0
	for _, a := range c.Allies() {
		if frac := a.HPPercent(); frac < bestFrac {
			best = a
			bestFrac = frac
		}
	}
	if bestFrac >= 0.80 {
		return nil
	}
	return best
}
