package ai

import "github.com/wartide/arena/internal/data"

// tacticalStrategy spends abilities before basic attacks and works in
// debuffs and buffs when no kill is on the table.
type tacticalStrategy struct{}

func (tacticalStrategy) Name() string { return data.BehaviorTactical }

func (tacticalStrategy) Evaluate(c *Context) (Decision, bool) {
	return runTactics(c, []tactic{
		exploreTactic,
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSpell) },
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSkill) },
		debuffTactic,
		basicAttackTactic,
		buffAllyTactic,
		dashTactic,
		moveTowardEnemyTactic,
	})
}
