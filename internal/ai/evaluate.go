package ai

import (
	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// Ability desirability scoring, shared by all strategies. Ties always
// break to the first-evaluated candidate so repeated runs pick the same
// action.

// scoreOffensiveSingle rates casting an offensive ability at one target.
// Low-HP targets and lethal hits are worth going out of the way for.
func scoreOffensiveSingle(amount int, target *battle.Unit) int {
	score := amount
	frac := target.HPPercent()
	if frac <= 0.30 {
		score += 30
	} else if frac <= 0.50 {
		score += 15
	}
	if lethal(amount, target) {
		score += 25
	}
	return score
}

// lethal reports whether amount would drop the target in one hit, after
// its combined protections.
func lethal(amount int, target *battle.Unit) bool {
	return amount >= target.HP+target.PhysProt+target.MagProt
}

// scoreOffensiveArea rates one origin cell for an area cast:
// 25 per enemy hit, plus per-enemy low-HP bonuses, minus a flat 50 when
// any ally would be caught in the blast.
func scoreOffensiveArea(c *Context, def *data.AbilityDefinition, origin battle.Cell) int {
	score := 0
	allyHit := false
	for _, u := range c.State.AliveUnits() {
		if battle.Chebyshev(u.X, u.Y, origin.X, origin.Y) > def.AreaRadius {
			continue
		}
		if u.OwnerID == c.Unit.OwnerID {
			allyHit = true
			continue
		}
		score += 25
		frac := u.HPPercent()
		if frac <= 0.30 {
			score += 30
		} else if frac <= 0.50 {
			score += 15
		}
	}
	if allyHit {
		score -= 50
	}
	return score
}

// scoreHealing rates healing an ally. Only allies below 80% HP are worth
// a cast at all.
func scoreHealing(target *battle.Unit) (int, bool) {
	frac := target.HPPercent()
	if frac >= 0.80 {
		return 0, false
	}
	score := int((1.0 - frac) * 40)
	if frac <= 0.25 {
		score += 30
	} else if frac <= 0.50 {
		score += 15
	}
	return score, true
}

// scoreBuff rates a buff cast: flat for self, combat-stat and remaining
// actions weighted for allies.
func scoreBuff(caster, target *battle.Unit) int {
	if target.ID == caster.ID {
		return 10
	}
	return target.Attrs.Combat + 5*target.ActionsLeft
}

// scoreDebuff rates a debuff cast: healthier enemies have more value to
// remove.
func scoreDebuff(target *battle.Unit) int {
	return int(target.HPPercent() * 30)
}
