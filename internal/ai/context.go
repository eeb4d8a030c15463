package ai

import (
	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// Context is the read-only input to one decision: a deep snapshot of the
// battle state plus the unit's immutable profile. Strategies never mutate
// anything reachable from it.
type Context struct {
	State     *battle.State
	Unit      *battle.Unit
	Profile   *data.AIProfile
	Abilities *data.AbilityTable
	Assess    Assessment
}

// Enemies returns alive units owned by other players, in stable order.
func (c *Context) Enemies() []*battle.Unit {
	var out []*battle.Unit
	for _, u := range c.State.AliveUnits() {
		if u.OwnerID != c.Unit.OwnerID {
			out = append(out, u)
		}
	}
	return out
}

// Allies returns alive friendly units excluding the unit itself.
func (c *Context) Allies() []*battle.Unit {
	var out []*battle.Unit
	for _, u := range c.State.AliveUnits() {
		if u.OwnerID == c.Unit.OwnerID && u.ID != c.Unit.ID {
			out = append(out, u)
		}
	}
	return out
}

// VisibleEnemies filters enemies by the unit's line of sight.
func (c *Context) VisibleEnemies() []*battle.Unit {
	var out []*battle.Unit
	for _, e := range c.Enemies() {
		if c.State.CanSee(c.Unit, e.X, e.Y) {
			out = append(out, e)
		}
	}
	return out
}

// NearestEnemy picks the closest enemy by Manhattan distance, first-found
// wins on ties.
func (c *Context) NearestEnemy() *battle.Unit {
	var best *battle.Unit
	bestDist := 0
	for _, e := range c.Enemies() {
		d := battle.Manhattan(c.Unit.X, c.Unit.Y, e.X, e.Y)
		if best == nil || d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// abilityDefs resolves the unit's castable abilities of the given kind:
// known, off cooldown, and affordable this turn. Profile skill priority
// codes come first, then the unit's own listing order.
func (c *Context) abilityDefs(kind string) []*data.AbilityDefinition {
	var codes []string
	codes = append(codes, c.Profile.SkillPriority...)
	codes = append(codes, c.Unit.Features...)
	codes = append(codes, c.Unit.Spells...)

	seen := make(map[string]bool, len(codes))
	var out []*data.AbilityDefinition
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		def := c.Abilities.Get(code)
		if def == nil || def.Kind != kind {
			continue
		}
		if !c.Unit.HasAbility(code) {
			continue
		}
		if c.Unit.Cooldowns[code] > 0 {
			continue
		}
		if def.ConsumesAction && c.Unit.ActionsLeft <= 0 {
			continue
		}
		out = append(out, def)
	}
	return out
}
