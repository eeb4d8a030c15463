package ai

import "github.com/wartide/arena/internal/data"

// supportStrategy keeps allies standing first and only fights when there
// is nobody to patch up.
type supportStrategy struct{}

func (supportStrategy) Name() string { return data.BehaviorSupport }

func (supportStrategy) Evaluate(c *Context) (Decision, bool) {
	return runTactics(c, []tactic{
		func(c *Context) (Decision, bool) { return healAllyTactic(c, true) },
		moveTowardWoundedAllyTactic,
		buffAllyTactic,
		debuffTactic,
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSpell) },
		basicAttackTactic,
		holdRangeTactic,
	})
}
