package ai

import "github.com/wartide/arena/internal/data"

// rangedStrategy keeps its preferred distance and pelts from there.
// Melee only as a last resort when cornered.
type rangedStrategy struct{}

func (rangedStrategy) Name() string { return data.BehaviorRanged }

func (rangedStrategy) Evaluate(c *Context) (Decision, bool) {
	return runTactics(c, []tactic{
		exploreTactic,
		holdRangeTactic,
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSpell) },
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSkill) },
		basicAttackTactic,
		moveTowardEnemyTactic,
	})
}
