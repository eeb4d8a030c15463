package battle

import "sort"

// Battle phases.
type Phase string

const (
	PhaseWaiting Phase = "WAITING"
	PhaseActive  Phase = "ACTIVE"
	PhaseEnded   Phase = "ENDED"
)

// Scheduler owns the action order, the round counter, and the per-turn
// countdown. It never mutates entities except via State.ResetTurn.
type Scheduler struct {
	order    []string
	idx      int // position of the active unit in order; -1 before first turn
	round    int
	activeID string

	turnDuration int // seconds per turn
	timer        int // seconds remaining, decremented by host ticks
}

func NewScheduler(turnDuration int) *Scheduler {
	return &Scheduler{idx: -1, round: 1, turnDuration: turnDuration}
}

// Build computes the action order: descending speed, ties broken by the
// stable input order. Called once at battle start (and again on rematch).
func (s *Scheduler) Build(units []*Unit) {
	s.order = s.order[:0]
	for _, u := range units {
		s.order = append(s.order, u.ID)
	}
	speeds := make(map[string]int, len(units))
	for _, u := range units {
		speeds[u.ID] = u.Attrs.Speed
	}
	sort.SliceStable(s.order, func(i, j int) bool {
		return speeds[s.order[i]] > speeds[s.order[j]]
	})
	s.idx = -1
	s.round = 1
	s.activeID = ""
}

// Append adds a unit (summon) to the end of the action order. It acts for
// the first time on the next lap.
func (s *Scheduler) Append(unitID string) {
	s.order = append(s.order, unitID)
}

func (s *Scheduler) Order() []string       { return s.order }
func (s *Scheduler) Round() int            { return s.round }
func (s *Scheduler) ActiveUnitID() string  { return s.activeID }
func (s *Scheduler) TimeLeft() int         { return s.timer }

// Advance walks the order from the slot after the active unit, modulo
// length, skipping dead units, for at most one full lap. The first alive
// unit found becomes active: its turn resources reset and the countdown
// restarts. Crossing index 0 triggers round rollover exactly once.
// Returns nil when no alive unit exists and the caller must end the battle.
func (s *Scheduler) Advance(st *State) *Unit {
	n := len(s.order)
	if n == 0 {
		return nil
	}
	rolled := false
	for i := 1; i <= n; i++ {
		j := s.idx + i
		if j >= n {
			j -= n
			if !rolled {
				s.rollover(st)
				rolled = true
			}
		}
		u := st.Unit(s.order[j])
		if u == nil || !u.Alive {
			continue
		}
		s.idx = j
		s.activeID = u.ID
		st.ResetTurn(u)
		s.timer = s.turnDuration
		return u
	}
	s.activeID = ""
	return nil
}

// rollover runs once per lap: every unit's cooldowns decrement by exactly
// one, condition durations tick down and expire at zero.
func (s *Scheduler) rollover(st *State) {
	s.round++
	for _, u := range st.Units() {
		for code, left := range u.Cooldowns {
			if left <= 1 {
				delete(u.Cooldowns, code)
			} else {
				u.Cooldowns[code] = left - 1
			}
		}
		for code, left := range u.Conditions {
			if left <= 1 {
				delete(u.Conditions, code)
			} else {
				u.Conditions[code] = left - 1
			}
		}
	}
}

// TickTimer decrements the countdown by one second. Returns true when it
// reaches zero, which the caller treats as an implicit pass. This is the
// only time-driven mutation in the simulation.
func (s *Scheduler) TickTimer() bool {
	if s.activeID == "" {
		return false
	}
	if s.timer > 0 {
		s.timer--
	}
	return s.timer == 0
}
