package battle

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/config"
	"github.com/wartide/arena/internal/core/event"
	"github.com/wartide/arena/internal/data"
)

// Request is one action submission, from a client or from the AI
// pipeline. PlayerID is empty for internally generated requests (AI
// decisions, forced passes), which bypass the ownership check.
type Request struct {
	PlayerID string
	UnitID   string
	Type     string // MOVE, ATTACK, SKILL, SPELL, DASH, PASS
	TargetID string
	Code     string
	X, Y     int
	Reason   string // diagnostic only
}

// DecideFunc produces one validated decision for an AI-controlled unit.
// Wired by the host to the guarded AI pipeline; must always return a
// request that is safe to apply (PASS in the worst case).
type DecideFunc func(b *Battle, unitID string) Request

// ParticipantResult is reported to the battle-end callback, once per
// player.
type ParticipantResult struct {
	PlayerID    string
	Winner      bool
	Surrendered bool
	UnitsAlive  int
}

// BattleEndFunc is the meta-progression boundary, invoked exactly once
// per match.
type BattleEndFunc func(winnerID string, results []ParticipantResult)

// aiDecisionBudget bounds decisions per AI turn so a strategy that keeps
// returning non-terminal decisions cannot spin the scheduler.
const aiDecisionBudget = 10

// Battle is one match: entity state, turn scheduler, executor, and
// session bookkeeping behind a single serialized entry surface. All
// methods must be called from the owning actor goroutine.
type Battle struct {
	ID string

	cfg        config.BattleConfig
	sessionCfg config.SessionConfig

	state *State
	sched *Scheduler
	exec  *Executor

	abilities *data.AbilityTable
	summons   *data.SummonTable
	classes   *data.HeroClassTable

	bus *event.Bus
	log *zap.Logger
	rng *rand.Rand

	phase     Phase
	players   map[string]*Player
	playerIDs []string

	unitSeeds     []UnitSeed
	obstacleSeeds []ObstacleSeed

	winnerID    string
	winReason   string
	rematchLeft int // seconds left to vote after ENDED; -1 when unbounded

	decide      DecideFunc
	onDefeat    DefeatFunc
	onBattleEnd BattleEndFunc
	ended       bool // end callback fired
}

// Deps carries the battle's injected collaborators, in the style of the
// shared handler dependency struct.
type Deps struct {
	Battle    config.BattleConfig
	Session   config.SessionConfig
	Abilities *data.AbilityTable
	Summons   *data.SummonTable
	Classes   *data.HeroClassTable
	Bus       *event.Bus
	Log       *zap.Logger
	Seed      int64
}

func New(id string, deps Deps) *Battle {
	rng := rand.New(rand.NewSource(deps.Seed))
	st := NewState(Grid{Width: deps.Battle.GridWidth, Height: deps.Battle.GridHeight}, deps.Log)
	return &Battle{
		ID:         id,
		cfg:        deps.Battle,
		sessionCfg: deps.Session,
		state:      st,
		sched:      NewScheduler(deps.Battle.TurnDuration),
		exec:       NewExecutor(st, deps.Abilities, deps.Summons, rng),
		abilities:  deps.Abilities,
		summons:    deps.Summons,
		classes:    deps.Classes,
		bus:        deps.Bus,
		log:        deps.Log,
		rng:        rng,
		phase:      PhaseWaiting,
		players:    make(map[string]*Player),
	}
}

func (b *Battle) Phase() Phase         { return b.phase }
func (b *Battle) State() *State        { return b.state }
func (b *Battle) Scheduler() *Scheduler { return b.sched }
func (b *Battle) WinnerID() string     { return b.winnerID }
func (b *Battle) WinReason() string    { return b.winReason }

// Results reports the per-player outcome for the current winner. Only
// meaningful once the battle has ended.
func (b *Battle) Results() []ParticipantResult { return b.results(b.winnerID) }

// SetDecideFunc wires the AI pipeline. Must be set before Start when any
// unit is AI-controlled.
func (b *Battle) SetDecideFunc(fn DecideFunc) { b.decide = fn }

// SetBattleEndCallback wires the meta-progression boundary.
func (b *Battle) SetBattleEndCallback(fn BattleEndFunc) { b.onBattleEnd = fn }

// SetDefeatCallback wires the per-kill meta-progression boundary.
func (b *Battle) SetDefeatCallback(fn DefeatFunc) {
	b.onDefeat = fn
	b.state.SetDefeatCallback(fn)
}

// Start transitions the battle from WAITING to ACTIVE: it builds units and
// obstacles from the retained seeds, computes the action order, and opens
// the first turn.
func (b *Battle) Start() error {
	if b.phase != PhaseWaiting {
		return &Reject{Reason: RejectBattleNotActive, Detail: "already started"}
	}
	if len(b.playerIDs) < b.sessionCfg.MinPlayers {
		return &Reject{Reason: RejectInsufficientResource, Detail: "not enough players"}
	}
	if err := b.deploy(); err != nil {
		return err
	}
	b.phase = PhaseActive
	b.turnLoop()
	return nil
}

// Submit validates and applies a client action. Rejected requests leave
// state untouched and report a typed reason to the sender.
func (b *Battle) Submit(req Request) (*ActionOutcome, error) {
	if b.phase != PhaseActive {
		return nil, &Reject{Reason: RejectBattleNotActive}
	}
	u := b.state.Unit(req.UnitID)
	if u == nil {
		return nil, &Reject{Reason: RejectUnitNotFound}
	}
	if req.PlayerID != "" {
		p := b.players[req.PlayerID]
		if p == nil || p.Surrendered || req.PlayerID != u.OwnerID {
			return nil, &Reject{Reason: RejectNotOwner}
		}
		if !p.Connected {
			return nil, &Reject{Reason: RejectNotOwner, Detail: "disconnected"}
		}
	}
	// No action buffering: anything submitted off-turn is rejected.
	if b.sched.ActiveUnitID() != u.ID {
		return nil, &Reject{Reason: RejectNotYourTurn}
	}
	out, err := b.apply(req, u)
	if err != nil {
		return nil, err
	}
	// A unit can die from its own action (an area spell on its own
	// cell). That ends its turn as surely as a pass does.
	if b.phase == PhaseActive && (out.EndsTurn || !u.Alive) {
		b.turnLoop()
	}
	return out, nil
}

// Tick advances wall-clock concerns by one second: the turn countdown and
// disconnect grace windows. A tick is just another serialized message.
func (b *Battle) Tick() {
	switch b.phase {
	case PhaseActive:
		b.tickGraceWindows()
		if b.phase != PhaseActive {
			return
		}
		if b.sched.TickTimer() {
			b.forcePass()
		}
	case PhaseEnded:
		if b.rematchLeft > 0 {
			b.rematchLeft--
		}
	}
}

// forcePass ends the active unit's turn as an implicit pass (timer
// expiry or an unrecoverable AI turn).
func (b *Battle) forcePass() {
	u := b.state.Unit(b.sched.ActiveUnitID())
	if u == nil {
		return
	}
	if !u.Alive {
		// The active unit is already dead; there is no pass to apply,
		// just a turn to advance past.
		b.turnLoop()
		return
	}
	out, err := b.apply(Request{UnitID: u.ID, Type: ActionPass, Reason: "turn timer expired"}, u)
	if err == nil && out.EndsTurn && b.phase == PhaseActive {
		b.turnLoop()
	}
}

// apply dispatches one request to the executor and emits the resulting
// events. It never advances the turn; callers react to EndsTurn.
func (b *Battle) apply(req Request, u *Unit) (*ActionOutcome, error) {
	if !u.Alive {
		return nil, &Reject{Reason: RejectUnitDead}
	}

	var out *ActionOutcome
	var err error
	switch req.Type {
	case ActionMove:
		out, err = b.exec.Move(u, req.X, req.Y)
	case ActionAttack:
		out, err = b.exec.Attack(u, req.TargetID)
	case ActionSkill, ActionSpell:
		out, err = b.exec.UseAbility(u, req.Code, req.TargetID, req.X, req.Y)
	case ActionDash:
		out, err = b.exec.Dash(u)
	case ActionPass:
		out, err = b.exec.Pass(u)
	default:
		return nil, &Reject{Reason: RejectUnknownAbility, Detail: "bad action type " + req.Type}
	}
	if err != nil {
		return nil, err
	}

	if out.SummonedID != "" {
		b.sched.Append(out.SummonedID)
	}
	b.emitAction(u, req, out)
	b.checkEnd()
	return out, nil
}

// emitAction publishes the state delta of a successful action plus one
// UnitDefeated per kill.
func (b *Battle) emitAction(u *Unit, req Request, out *ActionOutcome) {
	ev := event.ActionApplied{
		BattleID: b.ID,
		ActorID:  u.ID,
		Action:   out.Action,
		TargetID: out.TargetID,
		Code:     out.Code,
		FromX:    out.FromX, FromY: out.FromY,
		ToX: out.ToX, ToY: out.ToY,
		Reason: req.Reason,
	}
	for _, eff := range out.Effects {
		ev.Damage += eff.Damage
		ev.Healing += eff.Healing
		if eff.Missed {
			ev.Missed = true
		}
		if target := b.state.Unit(eff.TargetID); target != nil {
			ev.TargetHP = target.HP
		}
		if eff.Defeated {
			victim := b.state.Unit(eff.TargetID)
			b.bus.Publish(event.UnitDefeated{
				BattleID:       b.ID,
				VictimID:       eff.TargetID,
				VictimCategory: victim.Category,
				KillerID:       u.ID,
			})
		}
	}
	b.bus.Publish(ev)
}

// turnLoop advances the scheduler until a human-controlled unit is
// active, the battle ends, or no alive unit remains. AI turns run inline
// here; consecutive AI units are handled iteratively, never recursively.
func (b *Battle) turnLoop() {
	for b.phase == PhaseActive {
		u := b.sched.Advance(b.state)
		if u == nil {
			b.endBattle("", "no units remaining")
			return
		}
		if b.cfg.MaxRounds > 0 && b.sched.Round() > b.cfg.MaxRounds {
			b.endBattle("", "round limit reached")
			return
		}
		b.bus.Publish(event.TurnStarted{BattleID: b.ID, UnitID: u.ID, Round: b.sched.Round()})
		if !u.AIControlled {
			return
		}
		b.aiTurn(u)
	}
}

// aiTurn drains one AI-controlled turn: ask the guarded pipeline for a
// decision, apply it, repeat until the turn ends or the budget runs out.
func (b *Battle) aiTurn(u *Unit) {
	if b.decide == nil {
		b.apply(Request{UnitID: u.ID, Type: ActionPass, Reason: "no ai wired"}, u)
		return
	}
	for i := 0; i < aiDecisionBudget; i++ {
		if b.phase != PhaseActive || b.sched.ActiveUnitID() != u.ID || !u.Alive {
			return
		}
		req := b.decide(b, u.ID)
		req.UnitID = u.ID
		req.PlayerID = ""
		out, err := b.apply(req, u)
		if err != nil {
			// The guard validated against a snapshot; the live state may
			// still refuse. Never retry the same parameters.
			b.log.Warn("ai decision rejected",
				zap.String("battle", b.ID),
				zap.String("unit", u.ID),
				zap.String("type", req.Type),
				zap.Error(err))
			out, err = b.apply(Request{UnitID: u.ID, Type: ActionPass, Reason: "invalid ai decision"}, u)
			if err != nil {
				return
			}
		}
		if out.EndsTurn {
			return
		}
	}
	// Budget exhausted: close the turn so the scheduler always progresses.
	b.apply(Request{UnitID: u.ID, Type: ActionPass, Reason: "ai decision budget exhausted"}, u)
}

// endBattle transitions to ENDED and fires the end callback once.
func (b *Battle) endBattle(winnerID, reason string) {
	if b.phase == PhaseEnded {
		return
	}
	b.phase = PhaseEnded
	b.winnerID = winnerID
	b.winReason = reason
	b.rematchLeft = -1
	if b.sessionCfg.RematchWindow > 0 {
		b.rematchLeft = int(b.sessionCfg.RematchWindow.Seconds())
	}
	b.bus.Publish(event.BattleEnded{
		BattleID:  b.ID,
		WinnerID:  winnerID,
		WinReason: reason,
		Rounds:    b.sched.Round(),
	})
	if b.onBattleEnd != nil && !b.ended {
		b.ended = true
		b.onBattleEnd(winnerID, b.results(winnerID))
	}
}

func (b *Battle) results(winnerID string) []ParticipantResult {
	out := make([]ParticipantResult, 0, len(b.playerIDs))
	for _, id := range b.playerIDs {
		p := b.players[id]
		alive := 0
		for _, u := range b.state.AliveUnits() {
			if u.OwnerID == id {
				alive++
			}
		}
		out = append(out, ParticipantResult{
			PlayerID:    id,
			Winner:      id == winnerID,
			Surrendered: p.Surrendered,
			UnitsAlive:  alive,
		})
	}
	return out
}

// checkEnd recomputes the contender set after defeats and surrenders: if
// at most one player still has an alive, non-surrendered unit, the battle
// ends.
func (b *Battle) checkEnd() {
	if b.phase != PhaseActive {
		return
	}
	var contenders []string
	for _, id := range b.playerIDs {
		p := b.players[id]
		if p.Surrendered {
			continue
		}
		for _, u := range b.state.AliveUnits() {
			if u.OwnerID == id {
				contenders = append(contenders, id)
				break
			}
		}
	}
	switch len(contenders) {
	case 0:
		b.endBattle("", "mutual destruction")
	case 1:
		b.endBattle(contenders[0], "last player standing")
	}
}
