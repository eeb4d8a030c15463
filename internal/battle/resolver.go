package battle

import (
	"math/rand"

	"github.com/wartide/arena/internal/data"
)

// ResolvedEffect is the outcome of one damage or heal resolution.
type ResolvedEffect struct {
	TargetID string
	Missed   bool
	Absorbed int // protection consumed
	Damage   int // HP actually lost
	Healing  int // HP actually restored
	Defeated bool
}

// BasicAttackDamage is the default melee formula: attacker combat minus
// target resistance, floored at 1 so an attack always threatens.
func BasicAttackDamage(attacker, target *Unit) int {
	dmg := attacker.Attrs.Combat - target.Attrs.Resistance
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// evadeChance derives the target's chance to evade an evadable ability
// from the speed/focus differential, clamped to [0, 0.5].
func evadeChance(attacker, target *Unit) float64 {
	c := float64(target.Attrs.Speed-attacker.Attrs.Focus) * 0.05
	if c < 0 {
		return 0
	}
	if c > 0.5 {
		return 0.5
	}
	return c
}

// ResolveDamage applies typed damage from attacker to target: the
// matching protection absorbs first (TRUE damage bypasses both), the rest
// subtracts from HP floored at 0, and defeat is marked in the same step.
// When evadable, the hit check happens before any math; a miss
// short-circuits with zero effect.
func (s *State) ResolveDamage(attacker, target *Unit, damageType string, base int, evadable bool, rng *rand.Rand) ResolvedEffect {
	res := ResolvedEffect{TargetID: target.ID}
	if !target.Alive || base <= 0 {
		return res
	}
	if evadable && rng != nil && rng.Float64() < evadeChance(attacker, target) {
		res.Missed = true
		return res
	}

	remaining := base
	switch damageType {
	case data.DamagePhysical:
		if target.PhysProt > 0 {
			absorb := remaining
			if absorb > target.PhysProt {
				absorb = target.PhysProt
			}
			target.PhysProt -= absorb
			remaining -= absorb
			res.Absorbed = absorb
		}
	case data.DamageMagical:
		if target.MagProt > 0 {
			absorb := remaining
			if absorb > target.MagProt {
				absorb = target.MagProt
			}
			target.MagProt -= absorb
			remaining -= absorb
			res.Absorbed = absorb
		}
	case data.DamageTrue:
		// bypasses both protections
	}

	if remaining > target.HP {
		remaining = target.HP
	}
	killerID := ""
	if attacker != nil {
		killerID = attacker.ID
	}
	res.Damage = remaining
	res.Defeated = s.damage(target, remaining, killerID)
	return res
}

// ResolveHeal restores HP capped at max. Dead units cannot be revived.
func (s *State) ResolveHeal(target *Unit, amount int) ResolvedEffect {
	res := ResolvedEffect{TargetID: target.ID}
	res.Healing = s.heal(target, amount)
	return res
}

// ResolveObstacleDamage applies attack damage to terrain. Obstacles have
// no protections.
func (s *State) ResolveObstacleDamage(o *Obstacle, amount int) {
	s.damageObstacle(o, amount)
}
