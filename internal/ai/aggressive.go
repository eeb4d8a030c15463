package ai

import "github.com/wartide/arena/internal/data"

// aggressiveStrategy attacks whatever it can and closes distance
// otherwise. Used by troops, monsters, and summons without a profile.
type aggressiveStrategy struct{}

func (aggressiveStrategy) Name() string { return data.BehaviorAggressive }

func (aggressiveStrategy) Evaluate(c *Context) (Decision, bool) {
	return runTactics(c, []tactic{
		exploreTactic,
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSpell) },
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSkill) },
		basicAttackTactic,
		dashTactic,
		moveTowardEnemyTactic,
	})
}
