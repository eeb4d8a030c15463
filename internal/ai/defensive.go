package ai

import "github.com/wartide/arena/internal/data"

// defensiveStrategy preserves the unit: patch itself up, open distance,
// and only swing when it cannot get away. Wounded units of any profile
// are routed here.
type defensiveStrategy struct{}

func (defensiveStrategy) Name() string { return data.BehaviorDefensive }

func (defensiveStrategy) Evaluate(c *Context) (Decision, bool) {
	return runTactics(c, []tactic{
		selfHealTactic,
		retreatTactic,
		basicAttackTactic, // cornered, nowhere to run
		func(c *Context) (Decision, bool) { return offensiveAbilityTactic(c, data.AbilityKindSpell) },
	})
}

// selfHealTactic heals the unit itself when wounded.
func selfHealTactic(c *Context) (Decision, bool) {
	for _, def := range healDefs(c) {
		if def.TargetShape != data.TargetSelf && def.TargetShape != data.TargetUnit {
			continue
		}
		if _, worth := scoreHealing(c.Unit); !worth {
			return Decision{}, false
		}
		return Decision{
			Type: actionTypeFor(def), Code: def.Code, TargetID: c.Unit.ID,
			Reason: "healing self",
		}, true
	}
	return Decision{}, false
}
