package battle

// Cell is an integer grid position.
type Cell struct {
	X, Y int
}

// Chebyshev distance, diagonal steps cost 1. Used for ranges and vision.
func Chebyshev(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}

// Manhattan distance. Used by AI target selection.
func Manhattan(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Grid holds the board bounds. Occupancy lives in State, which owns the
// entity tables.
type Grid struct {
	Width, Height int
}

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// neighborhood deltas, clockwise from north.
var stepDX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
var stepDY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
