package battle

import (
	"fmt"
	"math/rand"

	"github.com/wartide/arena/internal/data"
)

// Action type names, shared with the AI decision contract.
const (
	ActionMove   = "MOVE"
	ActionAttack = "ATTACK"
	ActionSkill  = "SKILL"
	ActionSpell  = "SPELL"
	ActionDash   = "DASH"
	ActionPass   = "PASS"
)

// ActionOutcome describes what one executed action did, for event
// emission and client sync.
type ActionOutcome struct {
	Action       string
	FromX, FromY int
	ToX, ToY     int
	TargetID     string
	Code         string
	Effects      []ResolvedEffect
	SummonedID   string
	EndsTurn     bool
}

// Executor validates and applies actions. Every entry point is
// validate-then-apply: nothing mutates until the whole request has been
// checked, so a rejection leaves state untouched.
type Executor struct {
	state     *State
	abilities *data.AbilityTable
	summons   *data.SummonTable
	rng       *rand.Rand

	summonSeq int
}

func NewExecutor(st *State, abilities *data.AbilityTable, summons *data.SummonTable, rng *rand.Rand) *Executor {
	return &Executor{state: st, abilities: abilities, summons: summons, rng: rng}
}

// Move walks the unit to (x,y). Path cost is the flood-fill step count
// (uniform terrain, diagonals allowed) and must fit the remaining
// movement.
func (e *Executor) Move(u *Unit, x, y int) (*ActionOutcome, error) {
	if !e.state.InBounds(x, y) {
		return nil, &Reject{Reason: RejectPositionOutOfBounds}
	}
	if !e.state.IsValidPosition(x, y) {
		return nil, &Reject{Reason: RejectPositionOccupied}
	}
	cost, ok := e.state.ReachableCells(u)[Cell{x, y}]
	if !ok || cost > u.MovesLeft {
		return nil, &Reject{Reason: RejectInsufficientResource, Detail: "not enough movement"}
	}
	out := &ActionOutcome{Action: ActionMove, FromX: u.X, FromY: u.Y, ToX: x, ToY: y}
	if err := e.state.SetPosition(u.ID, x, y); err != nil {
		return nil, err
	}
	u.MovesLeft -= cost
	u.HasStartedAction = true
	return out, nil
}

// Attack performs a basic attack on a unit or an obstacle.
func (e *Executor) Attack(u *Unit, targetID string) (*ActionOutcome, error) {
	if u.AttacksLeft <= 0 {
		return nil, &Reject{Reason: RejectNoActionsLeft, Detail: "no attacks left"}
	}
	out := &ActionOutcome{Action: ActionAttack, FromX: u.X, FromY: u.Y, TargetID: targetID}

	if target := e.state.Unit(targetID); target != nil {
		if !target.Alive {
			return nil, &Reject{Reason: RejectUnitDead}
		}
		if Chebyshev(u.X, u.Y, target.X, target.Y) > u.AttackRange {
			return nil, &Reject{Reason: RejectOutOfRange}
		}
		res := e.state.ResolveDamage(u, target, data.DamagePhysical, BasicAttackDamage(u, target), false, e.rng)
		out.Effects = append(out.Effects, res)
	} else if o := e.state.Obstacle(targetID); o != nil {
		if o.Destroyed {
			return nil, &Reject{Reason: RejectTargetDestroyed}
		}
		if Chebyshev(u.X, u.Y, o.X, o.Y) > u.AttackRange {
			return nil, &Reject{Reason: RejectOutOfRange}
		}
		e.state.ResolveObstacleDamage(o, u.Attrs.Combat)
		out.Effects = append(out.Effects, ResolvedEffect{TargetID: o.ID, Damage: u.Attrs.Combat})
	} else {
		return nil, &Reject{Reason: RejectUnitNotFound}
	}

	u.AttacksLeft--
	if u.AttacksLeft == 0 && u.ActionsLeft > 0 {
		u.ActionsLeft--
	}
	u.HasStartedAction = true
	return out, nil
}

// UseAbility casts a skill or spell. targetID is set for UNIT-shaped
// abilities, (x,y) for POSITION-shaped ones; SELF ignores both.
func (e *Executor) UseAbility(u *Unit, code, targetID string, x, y int) (*ActionOutcome, error) {
	def := e.abilities.Get(code)
	if def == nil {
		return nil, &Reject{Reason: RejectUnknownAbility}
	}
	if !u.HasAbility(code) {
		return nil, &Reject{Reason: RejectUnknownAbility, Detail: "unit does not know " + code}
	}
	if u.Cooldowns[code] > 0 {
		return nil, &Reject{Reason: RejectOnCooldown, Detail: fmt.Sprintf("%d rounds left", u.Cooldowns[code])}
	}
	if def.ConsumesAction && u.ActionsLeft <= 0 {
		return nil, &Reject{Reason: RejectNoActionsLeft}
	}

	action := ActionSkill
	if def.Kind == data.AbilityKindSpell {
		action = ActionSpell
	}
	out := &ActionOutcome{Action: action, Code: code, FromX: u.X, FromY: u.Y}

	// Resolve targets per the declared shape before any mutation.
	var targets []*Unit
	switch def.TargetShape {
	case data.TargetSelf:
		targets = []*Unit{u}
		out.ToX, out.ToY = u.X, u.Y
	case data.TargetUnit:
		target := e.state.Unit(targetID)
		if target == nil {
			return nil, &Reject{Reason: RejectUnitNotFound}
		}
		if !target.Alive {
			return nil, &Reject{Reason: RejectUnitDead}
		}
		if Chebyshev(u.X, u.Y, target.X, target.Y) > def.Range {
			return nil, &Reject{Reason: RejectOutOfRange}
		}
		targets = []*Unit{target}
		out.TargetID = targetID
		out.ToX, out.ToY = target.X, target.Y
	case data.TargetPosition:
		if !e.state.InBounds(x, y) {
			return nil, &Reject{Reason: RejectPositionOutOfBounds}
		}
		if Chebyshev(u.X, u.Y, x, y) > def.Range {
			return nil, &Reject{Reason: RejectOutOfRange}
		}
		out.ToX, out.ToY = x, y
		for _, other := range e.state.AliveUnits() {
			if Chebyshev(other.X, other.Y, x, y) <= def.AreaRadius {
				targets = append(targets, other)
			}
		}
	default:
		return nil, &Reject{Reason: RejectUnknownAbility, Detail: "bad target shape"}
	}

	switch def.Effect {
	case data.EffectSummon:
		id, err := e.spawnSummon(u, def)
		if err != nil {
			return nil, err
		}
		out.SummonedID = id
	case data.EffectDamage:
		for _, target := range targets {
			amount, err := def.Amount(formulaEnv(u, target))
			if err != nil {
				return nil, &Reject{Reason: RejectUnknownAbility, Detail: err.Error()}
			}
			res := e.state.ResolveDamage(u, target, def.DamageType, amount, def.Evadable, e.rng)
			if !res.Missed && def.Condition != "" && target.Alive {
				applyCondition(target, def.Condition, def.ConditionTurns)
			}
			out.Effects = append(out.Effects, res)
		}
		// Position casts also chip the obstacle on the target cell.
		if def.TargetShape == data.TargetPosition {
			if o := e.state.ObstacleAt(x, y); o != nil {
				amount, _ := def.Amount(formulaEnv(u, u))
				e.state.ResolveObstacleDamage(o, amount)
			}
		}
	case data.EffectHeal:
		for _, target := range targets {
			amount, err := def.Amount(formulaEnv(u, target))
			if err != nil {
				return nil, &Reject{Reason: RejectUnknownAbility, Detail: err.Error()}
			}
			out.Effects = append(out.Effects, e.state.ResolveHeal(target, amount))
		}
	case data.EffectBuff, data.EffectDebuff:
		for _, target := range targets {
			if def.Condition != "" {
				applyCondition(target, def.Condition, def.ConditionTurns)
			}
			out.Effects = append(out.Effects, ResolvedEffect{TargetID: target.ID})
		}
	default:
		return nil, &Reject{Reason: RejectUnknownAbility, Detail: "bad effect " + def.Effect}
	}

	if def.Cooldown > 0 {
		u.Cooldowns[code] = def.Cooldown
	}
	if def.ConsumesAction {
		u.ActionsLeft--
	}
	u.HasStartedAction = true
	return out, nil
}

// Dash doubles the unit's remaining movement for this turn. Always
// available, consumes an action, and does not stack.
func (e *Executor) Dash(u *Unit) (*ActionOutcome, error) {
	if u.HasCondition(ConditionDashing) {
		return nil, &Reject{Reason: RejectOnCooldown, Detail: "already dashing"}
	}
	if u.ActionsLeft <= 0 {
		return nil, &Reject{Reason: RejectNoActionsLeft}
	}
	u.MovesLeft *= 2
	applyCondition(u, ConditionDashing, 1)
	u.ActionsLeft--
	u.HasStartedAction = true
	return &ActionOutcome{Action: ActionDash, FromX: u.X, FromY: u.Y, ToX: u.X, ToY: u.Y}, nil
}

// Pass ends the unit's turn immediately. Always valid.
func (e *Executor) Pass(u *Unit) (*ActionOutcome, error) {
	return &ActionOutcome{Action: ActionPass, FromX: u.X, FromY: u.Y, ToX: u.X, ToY: u.Y, EndsTurn: true}, nil
}

// spawnSummon places a summoned unit on the first free cell adjacent to
// the caster (fixed direction scan, deterministic).
func (e *Executor) spawnSummon(caster *Unit, def *data.AbilityDefinition) (string, error) {
	tpl := e.summons.Get(def.SummonCode)
	if tpl == nil {
		return "", &Reject{Reason: RejectUnknownAbility, Detail: "unknown summon " + def.SummonCode}
	}
	for d := 0; d < 8; d++ {
		x, y := caster.X+stepDX[d], caster.Y+stepDY[d]
		if !e.state.IsValidPosition(x, y) {
			continue
		}
		e.summonSeq++
		u := &Unit{
			ID:           fmt.Sprintf("%s-summon-%d", caster.ID, e.summonSeq),
			OwnerID:      caster.OwnerID,
			Name:         tpl.Name,
			Category:     CategorySummon,
			AIControlled: true,
			Attrs:        tpl.Base,
			HP:           tpl.MaxHP,
			MaxHP:        tpl.MaxHP,
			PhysProt:     tpl.PhysProt,
			MaxPhysProt:  tpl.PhysProt,
			MagProt:      tpl.MagProt,
			MaxMagProt:   tpl.MagProt,
			X:            x,
			Y:            y,
			VisionRange:  tpl.VisionRange,
			AttackRange:  1,
			Features:     append([]string(nil), tpl.Features...),
			Spells:       append([]string(nil), tpl.Spells...),
			Cooldowns:    make(map[string]int),
			Conditions:   make(map[string]int),
			Alive:        true,
		}
		if err := e.state.AddUnit(u); err != nil {
			return "", err
		}
		return u.ID, nil
	}
	return "", &Reject{Reason: RejectPositionOccupied, Detail: "no free cell adjacent to caster"}
}

func applyCondition(u *Unit, code string, turns int) {
	if turns < 1 {
		turns = 1
	}
	if u.Conditions[code] < turns {
		u.Conditions[code] = turns
	}
}

func formulaEnv(attacker, target *Unit) data.FormulaEnv {
	return data.FormulaEnv{
		Combat:           attacker.Attrs.Combat,
		Speed:            attacker.Attrs.Speed,
		Focus:            attacker.Attrs.Focus,
		Resistance:       attacker.Attrs.Resistance,
		Will:             attacker.Attrs.Will,
		Vitality:         attacker.Attrs.Vitality,
		TargetResistance: target.Attrs.Resistance,
		TargetWill:       target.Attrs.Will,
		TargetHP:         target.HP,
		TargetMaxHP:      target.MaxHP,
	}
}
