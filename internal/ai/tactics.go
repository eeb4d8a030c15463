package ai

import (
	"fmt"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// Tactics are the shared building blocks strategies compose into their
// priority lists. Each returns (decision, true) when it has a concrete
// move and (zero, false) otherwise.

// exploreTactic fires when no enemy is visible: advance toward the
// nearest enemy position.
func exploreTactic(c *Context) (Decision, bool) {
	if len(c.VisibleEnemies()) > 0 {
		return Decision{}, false
	}
	enemy := c.NearestEnemy()
	if enemy == nil {
		return Decision{}, false
	}
	cell, ok := bestCellToward(c, enemy.X, enemy.Y)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Type: battle.ActionMove, X: cell.X, Y: cell.Y,
		Reason: "no enemy visible, advancing",
	}, true
}

// offensiveAbilityTactic picks the best-scoring damage cast of the given
// kind (SKILL or SPELL) against visible enemies.
func offensiveAbilityTactic(c *Context, kind string) (Decision, bool) {
	enemies := c.VisibleEnemies()
	if len(enemies) == 0 {
		return Decision{}, false
	}
	actionType := battle.ActionSkill
	if kind == data.AbilityKindSpell {
		actionType = battle.ActionSpell
	}

	bestScore := 0
	var best Decision
	found := false
	for _, def := range c.abilityDefs(kind) {
		if def.Effect != data.EffectDamage && def.Effect != data.EffectSummon {
			continue
		}
		if def.Effect == data.EffectSummon {
			// Summons are always worth an action when enemies are around.
			if !found {
				best = Decision{Type: actionType, Code: def.Code, Reason: "summoning reinforcements"}
				found = true
			}
			continue
		}
		switch def.TargetShape {
		case data.TargetPosition:
			if cell, score, ok := bestAreaOrigin(c, def); ok && score > bestScore {
				bestScore = score
				best = Decision{
					Type: actionType, Code: def.Code, X: cell.X, Y: cell.Y,
					Reason: fmt.Sprintf("area %s at (%d,%d) scores %d", def.Code, cell.X, cell.Y, score),
				}
				found = true
			}
		case data.TargetUnit:
			for _, enemy := range enemies {
				if battle.Chebyshev(c.Unit.X, c.Unit.Y, enemy.X, enemy.Y) > def.Range {
					continue
				}
				amount, err := abilityAmount(c, def, enemy)
				if err != nil {
					continue
				}
				if score := scoreOffensiveSingle(amount, enemy); score > bestScore {
					bestScore = score
					best = Decision{
						Type: actionType, Code: def.Code, TargetID: enemy.ID,
						Reason: fmt.Sprintf("%s on %s scores %d", def.Code, enemy.ID, score),
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// bestAreaOrigin scans candidate origin cells within cast range and
// returns the highest-scoring one. Iteration is row-major for stable
// tie-breaks; a cast that cannot reach a positive score is not worth it.
func bestAreaOrigin(c *Context, def *data.AbilityDefinition) (battle.Cell, int, bool) {
	var best battle.Cell
	bestScore := 0
	found := false
	for y := c.Unit.Y - def.Range; y <= c.Unit.Y+def.Range; y++ {
		for x := c.Unit.X - def.Range; x <= c.Unit.X+def.Range; x++ {
			if !c.State.InBounds(x, y) {
				continue
			}
			if battle.Chebyshev(c.Unit.X, c.Unit.Y, x, y) > def.Range {
				continue
			}
			origin := battle.Cell{X: x, Y: y}
			if score := scoreOffensiveArea(c, def, origin); score > bestScore {
				best = origin
				bestScore = score
				found = true
			}
		}
	}
	return best, bestScore, found
}

// basicAttackTactic attacks an enemy in reach. Lethal targets first; then
// the weakest when the profile focuses weak targets, else the nearest.
func basicAttackTactic(c *Context) (Decision, bool) {
	if c.Unit.AttacksLeft <= 0 {
		return Decision{}, false
	}
	var inReach []*battle.Unit
	for _, e := range c.Enemies() {
		if battle.Chebyshev(c.Unit.X, c.Unit.Y, e.X, e.Y) <= c.Unit.AttackRange {
			inReach = append(inReach, e)
		}
	}
	if len(inReach) == 0 {
		return Decision{}, false
	}

	pick := inReach[0]
	for _, e := range inReach {
		dmg := battle.BasicAttackDamage(c.Unit, e)
		if lethal(dmg, e) {
			pick = e
			break
		}
		if c.Profile.FocusWeakTargets && e.HPPercent() < pick.HPPercent() {
			pick = e
		}
	}
	return Decision{
		Type: battle.ActionAttack, TargetID: pick.ID,
		Reason: "attacking " + pick.ID,
	}, true
}

// healAllyTactic casts the best heal on the neediest target (allies below
// 80%, or self). PrioritizeHealingAllies profiles prefer allies over self.
func healAllyTactic(c *Context, includeSelf bool) (Decision, bool) {
	heals := healDefs(c)
	if len(heals) == 0 {
		return Decision{}, false
	}

	candidates := c.Allies()
	if includeSelf {
		if c.Profile.PrioritizeHealingAllies {
			candidates = append(candidates, c.Unit)
		} else {
			candidates = append([]*battle.Unit{c.Unit}, candidates...)
		}
	}

	bestScore := 0
	var best Decision
	found := false
	for _, def := range heals {
		for _, target := range candidates {
			score, worth := scoreHealing(target)
			if !worth || score <= bestScore {
				continue
			}
			switch def.TargetShape {
			case data.TargetSelf:
				if target.ID != c.Unit.ID {
					continue
				}
			case data.TargetUnit:
				if battle.Chebyshev(c.Unit.X, c.Unit.Y, target.X, target.Y) > def.Range {
					continue
				}
			default:
				continue
			}
			bestScore = score
			best = Decision{
				Type: actionTypeFor(def), Code: def.Code, TargetID: target.ID,
				Reason: fmt.Sprintf("healing %s at %.0f%%", target.ID, target.HPPercent()*100),
			}
			found = true
		}
	}
	return best, found
}

func healDefs(c *Context) []*data.AbilityDefinition {
	var out []*data.AbilityDefinition
	for _, kind := range []string{data.AbilityKindSkill, data.AbilityKindSpell} {
		for _, def := range c.abilityDefs(kind) {
			if def.Effect == data.EffectHeal {
				out = append(out, def)
			}
		}
	}
	return out
}

// buffAllyTactic casts the best buff available.
func buffAllyTactic(c *Context) (Decision, bool) {
	bestScore := 0
	var best Decision
	found := false
	for _, kind := range []string{data.AbilityKindSkill, data.AbilityKindSpell} {
		for _, def := range c.abilityDefs(kind) {
			if def.Effect != data.EffectBuff {
				continue
			}
			switch def.TargetShape {
			case data.TargetSelf:
				if score := scoreBuff(c.Unit, c.Unit); score > bestScore {
					bestScore = score
					best = Decision{Type: actionTypeFor(def), Code: def.Code, Reason: "buffing self"}
					found = true
				}
			case data.TargetUnit:
				for _, a := range c.Allies() {
					if battle.Chebyshev(c.Unit.X, c.Unit.Y, a.X, a.Y) > def.Range {
						continue
					}
					if score := scoreBuff(c.Unit, a); score > bestScore {
						bestScore = score
						best = Decision{
							Type: actionTypeFor(def), Code: def.Code, TargetID: a.ID,
							Reason: "buffing " + a.ID,
						}
						found = true
					}
				}
			}
		}
	}
	return best, found
}

// debuffTactic lands a debuff on the healthiest enemy in range.
func debuffTactic(c *Context) (Decision, bool) {
	bestScore := 0
	var best Decision
	found := false
	for _, kind := range []string{data.AbilityKindSkill, data.AbilityKindSpell} {
		for _, def := range c.abilityDefs(kind) {
			if def.Effect != data.EffectDebuff || def.TargetShape != data.TargetUnit {
				continue
			}
			for _, e := range c.VisibleEnemies() {
				if battle.Chebyshev(c.Unit.X, c.Unit.Y, e.X, e.Y) > def.Range {
					continue
				}
				if score := scoreDebuff(e); score > bestScore {
					bestScore = score
					best = Decision{
						Type: actionTypeFor(def), Code: def.Code, TargetID: e.ID,
						Reason: "debuffing " + e.ID,
					}
					found = true
				}
			}
		}
	}
	return best, found
}

// moveTowardEnemyTactic closes distance to the nearest enemy.
func moveTowardEnemyTactic(c *Context) (Decision, bool) {
	if c.Unit.MovesLeft <= 0 {
		return Decision{}, false
	}
	enemy := c.NearestEnemy()
	if enemy == nil {
		return Decision{}, false
	}
	cell, ok := bestCellToward(c, enemy.X, enemy.Y)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Type: battle.ActionMove, X: cell.X, Y: cell.Y,
		Reason: "closing on " + enemy.ID,
	}, true
}

// retreatTactic moves away from the nearest enemies.
func retreatTactic(c *Context) (Decision, bool) {
	if c.Unit.MovesLeft <= 0 {
		return Decision{}, false
	}
	cell, ok := bestCellAway(c)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Type: battle.ActionMove, X: cell.X, Y: cell.Y,
		Reason: "retreating",
	}, true
}

// holdRangeTactic keeps a ranged unit at its preferred distance from the
// nearest visible enemy.
func holdRangeTactic(c *Context) (Decision, bool) {
	if c.Unit.MovesLeft <= 0 || c.Profile.PreferredRange <= 1 {
		return Decision{}, false
	}
	enemies := c.VisibleEnemies()
	if len(enemies) == 0 {
		return Decision{}, false
	}
	nearest := enemies[0]
	for _, e := range enemies {
		if battle.Chebyshev(c.Unit.X, c.Unit.Y, e.X, e.Y) < battle.Chebyshev(c.Unit.X, c.Unit.Y, nearest.X, nearest.Y) {
			nearest = e
		}
	}
	cell, ok := bestCellAtRange(c, nearest, c.Profile.PreferredRange)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Type: battle.ActionMove, X: cell.X, Y: cell.Y,
		Reason: "holding range against " + nearest.ID,
	}, true
}

// dashTactic doubles movement when the unit wants to close a gap it
// cannot cover this turn. Only on the unit's own turn, never stacked.
func dashTactic(c *Context) (Decision, bool) {
	if c.Unit.ActionsLeft <= 0 || c.Unit.HasCondition(battle.ConditionDashing) {
		return Decision{}, false
	}
	enemy := c.NearestEnemy()
	if enemy == nil {
		return Decision{}, false
	}
	if battle.Chebyshev(c.Unit.X, c.Unit.Y, enemy.X, enemy.Y) <= c.Unit.MovesLeft+c.Unit.AttackRange {
		return Decision{}, false
	}
	return Decision{Type: battle.ActionDash, Reason: "dashing to close the gap"}, true
}

// moveTowardWoundedAllyTactic brings a support unit into heal range.
func moveTowardWoundedAllyTactic(c *Context) (Decision, bool) {
	if c.Unit.MovesLeft <= 0 || len(healDefs(c)) == 0 {
		return Decision{}, false
	}
	ally := mostWoundedAlly(c)
	if ally == nil {
		return Decision{}, false
	}
	cell, ok := bestCellToward(c, ally.X, ally.Y)
	if !ok {
		return Decision{}, false
	}
	return Decision{
		Type: battle.ActionMove, X: cell.X, Y: cell.Y,
		Reason: "moving to support " + ally.ID,
	}, true
}

func actionTypeFor(def *data.AbilityDefinition) string {
	if def.Kind == data.AbilityKindSpell {
		return battle.ActionSpell
	}
	return battle.ActionSkill
}

// abilityAmount evaluates the ability formula against the snapshot.
func abilityAmount(c *Context, def *data.AbilityDefinition, target *battle.Unit) (int, error) {
	return def.Amount(data.FormulaEnv{
		Combat:           c.Unit.Attrs.Combat,
		Speed:            c.Unit.Attrs.Speed,
		Focus:            c.Unit.Attrs.Focus,
		Resistance:       c.Unit.Attrs.Resistance,
		Will:             c.Unit.Attrs.Will,
		Vitality:         c.Unit.Attrs.Vitality,
		TargetResistance: target.Attrs.Resistance,
		TargetWill:       target.Attrs.Will,
		TargetHP:         target.HP,
		TargetMaxHP:      target.MaxHP,
	})
}
