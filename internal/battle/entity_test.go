package battle

import "testing"

func TestOccupancyRejectsDoublePlacement(t *testing.T) {
	s := testState(5, 5)
	mustAdd(t, s, testUnit("a", "p1", 2, 2))

	if err := s.AddUnit(testUnit("b", "p2", 2, 2)); err == nil {
		t.Fatalf("expected placement on an occupied cell to be rejected")
	} else if ReasonOf(err) != RejectPositionOccupied {
		t.Fatalf("expected %s, got %v", RejectPositionOccupied, err)
	}
}

func TestAddUnitOutOfBounds(t *testing.T) {
	s := testState(5, 5)
	if err := s.AddUnit(testUnit("a", "p1", 5, 0)); ReasonOf(err) != RejectPositionOutOfBounds {
		t.Fatalf("expected out-of-bounds rejection, got %v", err)
	}
}

func TestSetPositionRefusesOccupiedCell(t *testing.T) {
	s := testState(5, 5)
	a := mustAdd(t, s, testUnit("a", "p1", 0, 0))
	mustAdd(t, s, testUnit("b", "p2", 1, 0))

	if err := s.SetPosition("a", 1, 0); err == nil {
		t.Fatalf("expected occupied-cell refusal")
	}
	if a.X != 0 || a.Y != 0 {
		t.Fatalf("refused move must leave position untouched, got (%d,%d)", a.X, a.Y)
	}
	if s.occupied[Cell{X: 0, Y: 0}] != "a" {
		t.Fatalf("occupancy index out of sync after refusal")
	}
}

func TestObstacleBlocksOccupancyUntilDestroyed(t *testing.T) {
	s := testState(5, 5)
	if err := s.AddObstacle(&Obstacle{ID: "rock", X: 2, Y: 2, HP: 5, MaxHP: 5}); err != nil {
		t.Fatalf("add obstacle: %v", err)
	}
	if s.IsValidPosition(2, 2) {
		t.Fatalf("intact obstacle must block its cell")
	}

	s.damageObstacle(s.Obstacle("rock"), 5)
	if !s.Obstacle("rock").Destroyed {
		t.Fatalf("obstacle at 0 hp must be destroyed")
	}
	if !s.IsValidPosition(2, 2) {
		t.Fatalf("destroyed obstacle must free its cell")
	}
}

func TestLineOfSightBlockedByObstacle(t *testing.T) {
	s := testState(9, 9)
	u := testUnit("a", "p1", 0, 4)
	u.VisionRange = 8
	mustAdd(t, s, u)
	if err := s.AddObstacle(&Obstacle{ID: "wall", X: 3, Y: 4, HP: 5, MaxHP: 5}); err != nil {
		t.Fatalf("add obstacle: %v", err)
	}

	if !s.CanSee(u, 3, 4) {
		t.Fatalf("the blocking obstacle itself must be visible")
	}
	if s.CanSee(u, 6, 4) {
		t.Fatalf("cells behind an intact obstacle must be hidden")
	}

	s.damageObstacle(s.Obstacle("wall"), 5)
	if !s.CanSee(u, 6, 4) {
		t.Fatalf("destroyed obstacle must stop blocking sight")
	}
}

func TestReachableCellsBoundedByMoves(t *testing.T) {
	s := testState(9, 9)
	u := testUnit("a", "p1", 4, 4)
	u.MovesLeft = 2
	mustAdd(t, s, u)
	mustAdd(t, s, testUnit("b", "p2", 5, 4)) // blocks one neighbor

	cells := s.ReachableCells(u)
	if _, ok := cells[Cell{X: 5, Y: 4}]; ok {
		t.Fatalf("occupied cell must not be reachable")
	}
	if _, ok := cells[Cell{X: 7, Y: 4}]; ok {
		t.Fatalf("cell beyond movement budget must not be reachable")
	}
	if cost := cells[Cell{X: 6, Y: 4}]; cost != 2 {
		t.Fatalf("expected cost 2 around the blocker, got %d", cost)
	}
	if cost := cells[Cell{X: 3, Y: 3}]; cost != 1 {
		t.Fatalf("diagonal step must cost 1, got %d", cost)
	}
}

func TestSnapshotIsDeep(t *testing.T) {
	s := testState(5, 5)
	u := testUnit("a", "p1", 0, 0)
	u.Cooldowns["FIRE"] = 2
	mustAdd(t, s, u)

	snap := s.Snapshot()
	su := snap.Unit("a")
	su.HP = 1
	su.Cooldowns["FIRE"] = 9
	if err := snap.SetPosition("a", 3, 3); err != nil {
		t.Fatalf("snapshot move: %v", err)
	}

	if u.HP != 30 || u.Cooldowns["FIRE"] != 2 || u.X != 0 {
		t.Fatalf("mutating the snapshot leaked into live state: hp=%d cd=%d x=%d",
			u.HP, u.Cooldowns["FIRE"], u.X)
	}
}
