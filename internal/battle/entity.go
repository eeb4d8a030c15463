package battle

import (
	"go.uber.org/zap"

	"github.com/wartide/arena/internal/data"
)

// Unit categories.
const (
	CategoryTroop   = "TROOP"
	CategoryHero    = "HERO"
	CategoryRegent  = "REGENT"
	CategorySummon  = "SUMMON"
	CategoryMonster = "MONSTER"
)

// Condition codes the core itself depends on. All other condition codes
// are opaque to the simulation and only tick down at round rollover.
const (
	ConditionDashing = "DASHING"
)

// Unit is a combatant instance. All mutation goes through State's
// primitives; everything else holds the ID.
type Unit struct {
	ID           string
	OwnerID      string
	Name         string
	Category     string
	AIControlled bool

	Attrs data.Attributes // immutable for the battle except via buffs

	HP, MaxHP             int
	PhysProt, MaxPhysProt int
	MagProt, MaxMagProt   int

	MovesLeft        int
	ActionsLeft      int
	AttacksLeft      int
	HasStartedAction bool

	X, Y        int
	VisionRange int
	AttackRange int // basic attack reach, melee = 1

	Features  []string       // skill codes
	Spells    []string       // spell codes
	Cooldowns map[string]int // ability code to rounds remaining
	// Conditions maps status-effect code to remaining turns. Consumed as
	// opaque modifiers; durations tick at round rollover.
	Conditions map[string]int

	Alive bool
}

// HasAbility reports whether code is among the unit's features or spells.
func (u *Unit) HasAbility(code string) bool {
	for _, f := range u.Features {
		if f == code {
			return true
		}
	}
	for _, s := range u.Spells {
		if s == code {
			return true
		}
	}
	return false
}

// HasCondition reports whether the condition is active.
func (u *Unit) HasCondition(code string) bool {
	return u.Conditions[code] > 0
}

// HPPercent returns current HP as a fraction of max.
func (u *Unit) HPPercent() float64 {
	if u.MaxHP <= 0 {
		return 0
	}
	return float64(u.HP) / float64(u.MaxHP)
}

// Obstacle is static, destructible terrain. Position never changes.
type Obstacle struct {
	ID        string
	X, Y      int
	HP, MaxHP int
	Destroyed bool
}

// DefeatFunc is invoked once per kill (meta-progression boundary).
type DefeatFunc func(killerID, victimCategory string)

// State owns the canonical entity tables and the occupancy index. It is
// the only component that mutates HP, position, or turn resources, so the
// occupancy and bounds invariants are checked in one place. An invariant
// violation is refused and logged, never silently corrected.
type State struct {
	Grid

	units     map[string]*Unit
	unitIDs   []string // insertion order, for deterministic iteration
	obstacles map[string]*Obstacle
	obstIDs   []string
	occupied  map[Cell]string // occupant id per cell (alive units + intact obstacles)

	log      *zap.Logger
	onDefeat DefeatFunc
}

func NewState(grid Grid, log *zap.Logger) *State {
	return &State{
		Grid:      grid,
		units:     make(map[string]*Unit),
		obstacles: make(map[string]*Obstacle),
		occupied:  make(map[Cell]string),
		log:       log,
	}
}

// SetDefeatCallback installs the kill callback. Fire-and-forget from the
// core's perspective.
func (s *State) SetDefeatCallback(fn DefeatFunc) { s.onDefeat = fn }

// AddUnit places a unit on the board. Fails if the cell is out of bounds
// or occupied.
func (s *State) AddUnit(u *Unit) error {
	if !s.InBounds(u.X, u.Y) {
		return &Reject{Reason: RejectPositionOutOfBounds}
	}
	c := Cell{u.X, u.Y}
	if _, taken := s.occupied[c]; taken {
		return &Reject{Reason: RejectPositionOccupied}
	}
	s.units[u.ID] = u
	s.unitIDs = append(s.unitIDs, u.ID)
	if u.Alive {
		s.occupied[c] = u.ID
	}
	return nil
}

// AddObstacle places an obstacle on the board.
func (s *State) AddObstacle(o *Obstacle) error {
	if !s.InBounds(o.X, o.Y) {
		return &Reject{Reason: RejectPositionOutOfBounds}
	}
	c := Cell{o.X, o.Y}
	if _, taken := s.occupied[c]; taken {
		return &Reject{Reason: RejectPositionOccupied}
	}
	s.obstacles[o.ID] = o
	s.obstIDs = append(s.obstIDs, o.ID)
	if !o.Destroyed {
		s.occupied[c] = o.ID
	}
	return nil
}

// Unit returns the unit by id, nil when unknown. Dead units remain
// addressable for logs and AoE checks.
func (s *State) Unit(id string) *Unit { return s.units[id] }

// Obstacle returns the obstacle by id, nil when unknown.
func (s *State) Obstacle(id string) *Obstacle { return s.obstacles[id] }

// Units returns all units in insertion order.
func (s *State) Units() []*Unit {
	out := make([]*Unit, 0, len(s.unitIDs))
	for _, id := range s.unitIDs {
		out = append(out, s.units[id])
	}
	return out
}

// AliveUnits returns living units in insertion order.
func (s *State) AliveUnits() []*Unit {
	var out []*Unit
	for _, id := range s.unitIDs {
		if u := s.units[id]; u.Alive {
			out = append(out, u)
		}
	}
	return out
}

// ObstacleAt returns the intact obstacle at (x,y), nil if none.
func (s *State) ObstacleAt(x, y int) *Obstacle {
	id, ok := s.occupied[Cell{x, y}]
	if !ok {
		return nil
	}
	if o := s.obstacles[id]; o != nil && !o.Destroyed {
		return o
	}
	return nil
}

// UnitAt returns the alive unit at (x,y), nil if none.
func (s *State) UnitAt(x, y int) *Unit {
	id, ok := s.occupied[Cell{x, y}]
	if !ok {
		return nil
	}
	return s.units[id] // nil for obstacle ids
}

// IsValidPosition reports whether (x,y) is in bounds and free of alive
// units and intact obstacles. Pure query.
func (s *State) IsValidPosition(x, y int) bool {
	if !s.InBounds(x, y) {
		return false
	}
	_, taken := s.occupied[Cell{x, y}]
	return !taken
}

// --- Mutation primitives (used only by Resolver/Executor) ---

// SetPosition moves a unit, keeping the occupancy index consistent.
func (s *State) SetPosition(unitID string, x, y int) error {
	u := s.units[unitID]
	if u == nil {
		return &Reject{Reason: RejectUnitNotFound}
	}
	if !u.Alive {
		return &Reject{Reason: RejectUnitDead}
	}
	if !s.InBounds(x, y) {
		return &Reject{Reason: RejectPositionOutOfBounds}
	}
	dest := Cell{x, y}
	if holder, taken := s.occupied[dest]; taken && holder != unitID {
		// Two entities on one cell would corrupt the board.
		s.log.Error("occupancy violation refused",
			zap.String("unit", unitID),
			zap.Int("x", x), zap.Int("y", y),
			zap.String("holder", holder))
		return &Reject{Reason: RejectPositionOccupied}
	}
	delete(s.occupied, Cell{u.X, u.Y})
	u.X, u.Y = x, y
	s.occupied[dest] = unitID
	return nil
}

// damage applies post-absorption HP loss and marks defeat in the same
// step. Returns true when the unit died.
func (s *State) damage(u *Unit, hpLoss int, killerID string) bool {
	if hpLoss <= 0 || !u.Alive {
		return false
	}
	u.HP -= hpLoss
	if u.HP > 0 {
		return false
	}
	u.HP = 0
	s.markDead(u)
	if s.onDefeat != nil {
		s.onDefeat(killerID, u.Category)
	}
	return true
}

// markDead flags the unit and frees its cell. Dead units stay in the
// table, addressable by id.
func (s *State) markDead(u *Unit) {
	if !u.Alive {
		return
	}
	u.Alive = false
	delete(s.occupied, Cell{u.X, u.Y})
}

// heal raises HP capped at max. Cannot revive.
func (s *State) heal(u *Unit, amount int) int {
	if amount <= 0 || !u.Alive {
		return 0
	}
	missing := u.MaxHP - u.HP
	if amount > missing {
		amount = missing
	}
	u.HP += amount
	return amount
}

// damageObstacle applies damage to terrain, freeing the cell on
// destruction.
func (s *State) damageObstacle(o *Obstacle, amount int) {
	if amount <= 0 || o.Destroyed {
		return
	}
	o.HP -= amount
	if o.HP <= 0 {
		o.HP = 0
		o.Destroyed = true
		delete(s.occupied, Cell{o.X, o.Y})
	}
}

// ResetTurn resets a unit's turn resources. Called exactly once per visit
// in the action order, on the unit becoming active.
func (s *State) ResetTurn(u *Unit) {
	u.MovesLeft = u.Attrs.Speed
	u.ActionsLeft = 1
	u.AttacksLeft = 1
	u.HasStartedAction = false
}

// --- Visibility ---

// VisibleCells returns the set of cells the unit can see: in bounds,
// within vision range, with a clear line of sight. Intact obstacles block
// sight beyond themselves but are visible. Pure query.
func (s *State) VisibleCells(u *Unit) map[Cell]bool {
	out := make(map[Cell]bool)
	r := u.VisionRange
	for x := u.X - r; x <= u.X+r; x++ {
		for y := u.Y - r; y <= u.Y+r; y++ {
			if !s.InBounds(x, y) {
				continue
			}
			if s.lineOfSight(u.X, u.Y, x, y) {
				out[Cell{x, y}] = true
			}
		}
	}
	return out
}

// CanSee reports whether target's cell is in the unit's visible set.
func (s *State) CanSee(u *Unit, x, y int) bool {
	if Chebyshev(u.X, u.Y, x, y) > u.VisionRange {
		return false
	}
	return s.lineOfSight(u.X, u.Y, x, y)
}

// lineOfSight walks the grid line from (ax,ay) to (bx,by). Intact
// obstacles on intermediate cells block; the endpoint itself never blocks.
func (s *State) lineOfSight(ax, ay, bx, by int) bool {
	x, y := ax, ay
	for x != bx || y != by {
		if dx := bx - x; dx > 0 {
			x++
		} else if dx < 0 {
			x--
		}
		if dy := by - y; dy > 0 {
			y++
		} else if dy < 0 {
			y--
		}
		if x == bx && y == by {
			return true
		}
		if s.ObstacleAt(x, y) != nil {
			return false
		}
	}
	return true
}

// --- Reachability ---

// ReachableCells runs a uniform-cost flood fill from the unit's position,
// 8-directional, bounded by the unit's remaining movement. Occupied cells
// are impassable. The unit's own cell is included with cost 0.
func (s *State) ReachableCells(u *Unit) map[Cell]int {
	start := Cell{u.X, u.Y}
	costs := map[Cell]int{start: 0}
	frontier := []Cell{start}
	for len(frontier) > 0 {
		next := frontier[:0:0]
		for _, c := range frontier {
			cost := costs[c] + 1
			if cost > u.MovesLeft {
				continue
			}
			for d := 0; d < 8; d++ {
				n := Cell{c.X + stepDX[d], c.Y + stepDY[d]}
				if _, seen := costs[n]; seen {
					continue
				}
				if !s.IsValidPosition(n.X, n.Y) {
					continue
				}
				costs[n] = cost
				next = append(next, n)
			}
		}
		frontier = next
	}
	return costs
}

// --- Snapshot ---

// Snapshot deep-copies the state for the AI pipeline. The copy shares
// nothing mutable with the live state, so an abandoned (timed-out) AI
// computation can keep reading it safely.
func (s *State) Snapshot() *State {
	cp := &State{
		Grid:      s.Grid,
		units:     make(map[string]*Unit, len(s.units)),
		unitIDs:   append([]string(nil), s.unitIDs...),
		obstacles: make(map[string]*Obstacle, len(s.obstacles)),
		obstIDs:   append([]string(nil), s.obstIDs...),
		occupied:  make(map[Cell]string, len(s.occupied)),
		log:       s.log,
	}
	for id, u := range s.units {
		uc := *u
		uc.Features = append([]string(nil), u.Features...)
		uc.Spells = append([]string(nil), u.Spells...)
		uc.Cooldowns = make(map[string]int, len(u.Cooldowns))
		for k, v := range u.Cooldowns {
			uc.Cooldowns[k] = v
		}
		uc.Conditions = make(map[string]int, len(u.Conditions))
		for k, v := range u.Conditions {
			uc.Conditions[k] = v
		}
		cp.units[id] = &uc
	}
	for id, o := range s.obstacles {
		oc := *o
		cp.obstacles[id] = &oc
	}
	for c, id := range s.occupied {
		cp.occupied[c] = id
	}
	return cp
}
