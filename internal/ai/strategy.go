package ai

import (
	"go.uber.org/zap"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// Strategy maps a battlefield context to one decision. Implementations
// are stateless; all per-turn state lives in the Context.
type Strategy interface {
	Name() string
	Evaluate(c *Context) (Decision, bool)
}

// Engine dispatches a unit's turn to the strategy registered for its
// behavior profile. Unknown behaviors fall back to aggressive.
type Engine struct {
	strategies map[string]Strategy
	abilities  *data.AbilityTable
	profiles   *data.AIProfileTable
	log        *zap.Logger
}

func NewEngine(abilities *data.AbilityTable, profiles *data.AIProfileTable, log *zap.Logger) *Engine {
	e := &Engine{
		strategies: make(map[string]Strategy),
		abilities:  abilities,
		profiles:   profiles,
		log:        log,
	}
	for _, s := range []Strategy{
		aggressiveStrategy{},
		tacticalStrategy{},
		rangedStrategy{},
		supportStrategy{},
		defensiveStrategy{},
	} {
		e.strategies[s.Name()] = s
	}
	return e
}

// Decide produces one decision for the unit. The state must be a
// snapshot; Decide never mutates it. A panicking strategy yields PASS
// rather than taking the battle down.
func (e *Engine) Decide(state *battle.State, unitID string) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("strategy panicked, passing turn",
				zap.String("unit_id", unitID), zap.Any("error", r))
			d = Pass("strategy failure")
		}
	}()

	u := state.Unit(unitID)
	if u == nil || !u.Alive {
		return Pass("unit gone")
	}
	profile := e.profiles.Get(u.Category)

	c := &Context{
		State:     state,
		Unit:      u,
		Profile:   profile,
		Abilities: e.abilities,
		Assess:    Assess(u, profile),
	}

	behavior := profile.Behavior
	if c.Assess.ShouldRetreat {
		// Wounded units override their profile and play defensively.
		behavior = data.BehaviorDefensive
	}
	strat, ok := e.strategies[behavior]
	if !ok {
		strat = e.strategies[data.BehaviorAggressive]
	}

	if d, ok := strat.Evaluate(c); ok {
		e.log.Debug("strategy decided",
			zap.String("unit_id", unitID),
			zap.String("strategy", strat.Name()),
			zap.String("action", d.Type),
			zap.String("reason", d.Reason))
		return d
	}
	return Pass("no viable action")
}

// tactic is the unit every strategy is built from.
type tactic func(*Context) (Decision, bool)

// runTactics walks the priority list and returns the first tactic that
// produces a decision.
func runTactics(c *Context, tactics []tactic) (Decision, bool) {
	for _, t := range tactics {
		if d, ok := t(c); ok {
			return d, true
		}
	}
	return Decision{}, false
}
