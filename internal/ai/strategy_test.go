package ai

import (
	"testing"

	"github.com/wartide/arena/internal/battle"
)

func TestWoundedSupportRetreatsInsteadOfSupporting(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	// HERO profile: SUPPORT behavior, retreat threshold 0.4. No heal
	// spells known, HP at 10%.
	u := addUnit(t, s, "healer", "A", battle.CategoryHero, 5, 5)
	u.HP = 3
	enemy := addUnit(t, s, "enemy", "B", battle.CategoryTroop, 6, 5)

	d := e.Decide(s, "healer")
	if d.Type != battle.ActionMove {
		t.Fatalf("wounded unit with no self-heal must retreat with MOVE, got %s (%s)", d.Type, d.Reason)
	}
	before := battle.Manhattan(5, 5, enemy.X, enemy.Y)
	after := battle.Manhattan(d.X, d.Y, enemy.X, enemy.Y)
	if after <= before {
		t.Fatalf("retreat move must increase distance to the enemy: before=%d after=%d", before, after)
	}
}

func TestHealthySupportHealsWoundedAlly(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	u := addUnit(t, s, "healer", "A", battle.CategoryHero, 5, 5)
	u.Spells = []string{"MEND"}
	ally := addUnit(t, s, "tank", "A", battle.CategoryTroop, 6, 5)
	ally.HP = 10
	addUnit(t, s, "enemy", "B", battle.CategoryTroop, 9, 9)

	d := e.Decide(s, "healer")
	if d.Type != battle.ActionSpell || d.Code != "MEND" || d.TargetID != "tank" {
		t.Fatalf("expected MEND on tank, got %+v", d)
	}
}

func TestAggressiveAttacksAdjacentEnemy(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	addUnit(t, s, "grunt", "A", battle.CategoryTroop, 5, 5)
	addUnit(t, s, "enemy", "B", battle.CategoryTroop, 6, 5)

	d := e.Decide(s, "grunt")
	if d.Type != battle.ActionAttack || d.TargetID != "enemy" {
		t.Fatalf("expected basic attack on adjacent enemy, got %+v", d)
	}
}

func TestAggressiveFocusesWeakestTarget(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	addUnit(t, s, "grunt", "A", battle.CategoryTroop, 5, 5)
	addUnit(t, s, "healthy", "B", battle.CategoryTroop, 4, 5)
	weak := addUnit(t, s, "weak", "B", battle.CategoryTroop, 6, 5)
	weak.HP = 8

	d := e.Decide(s, "grunt")
	if d.Type != battle.ActionAttack || d.TargetID != "weak" {
		t.Fatalf("focus_weak_targets must pick the weakest in reach, got %+v", d)
	}
}

func TestAggressiveClosesDistanceWhenOutOfReach(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	u := addUnit(t, s, "grunt", "A", battle.CategoryTroop, 0, 0)
	addUnit(t, s, "enemy", "B", battle.CategoryTroop, 4, 4)

	d := e.Decide(s, "grunt")
	if d.Type != battle.ActionMove {
		t.Fatalf("expected closing MOVE, got %+v", d)
	}
	before := battle.Manhattan(u.X, u.Y, 4, 4)
	after := battle.Manhattan(d.X, d.Y, 4, 4)
	if after >= before {
		t.Fatalf("closing move must reduce distance: before=%d after=%d", before, after)
	}
}

func TestAggressiveDashesWhenEnemyIsFar(t *testing.T) {
	e := testEngine(t)
	s := testState(10, 10)

	addUnit(t, s, "grunt", "A", battle.CategoryTroop, 0, 0)
	addUnit(t, s, "enemy", "B", battle.CategoryTroop, 9, 9)

	d := e.Decide(s, "grunt")
	if d.Type != battle.ActionDash {
		t.Fatalf("expected DASH against a visible but unreachable enemy, got %+v", d)
	}
}

func TestAreaCastPrefersClusters(t *testing.T) {
	e := testEngine(t)
	s := testState(12, 12)

	caster := addUnit(t, s, "mage", "A", battle.CategoryTroop, 0, 0)
	caster.Spells = []string{"BLAST"}
	// Cluster of three within one radius-1 circle, plus one straggler.
	addUnit(t, s, "c1", "B", battle.CategoryTroop, 4, 4)
	addUnit(t, s, "c2", "B", battle.CategoryTroop, 5, 4)
	addUnit(t, s, "c3", "B", battle.CategoryTroop, 4, 5)
	addUnit(t, s, "lone", "B", battle.CategoryTroop, 0, 2)

	d, ok := offensiveAbilityTactic(&Context{
		State: s, Unit: caster,
		Profile:   e.profiles.Get(battle.CategoryTroop),
		Abilities: e.abilities,
	}, "SPELL")
	if !ok || d.Type != battle.ActionSpell || d.Code != "BLAST" {
		t.Fatalf("expected BLAST cast, got ok=%v %+v", ok, d)
	}
	hits := 0
	for _, id := range []string{"c1", "c2", "c3"} {
		u := s.Unit(id)
		if battle.Chebyshev(u.X, u.Y, d.X, d.Y) <= 1 {
			hits++
		}
	}
	if hits != 3 {
		t.Fatalf("area origin (%d,%d) must cover the 3-enemy cluster, hits=%d", d.X, d.Y, hits)
	}
}

func TestRangedHoldsPreferredDistance(t *testing.T) {
	e := testEngine(t)
	s := testState(12, 12)

	// REGENT profile: RANGED, preferred range 4. Enemy adjacent.
	u := addUnit(t, s, "archer", "A", battle.CategoryRegent, 5, 5)
	u.AttackRange = 4
	u.MovesLeft = 4
	addUnit(t, s, "enemy", "B", battle.CategoryTroop, 6, 5)

	d := e.Decide(s, "archer")
	if d.Type != battle.ActionMove {
		t.Fatalf("crowded ranged unit must reposition, got %+v", d)
	}
	if dist := battle.Chebyshev(d.X, d.Y, 6, 5); dist <= 1 {
		t.Fatalf("reposition must open distance, got %d", dist)
	}
}

func TestUnknownUnitPasses(t *testing.T) {
	e := testEngine(t)
	s := testState(5, 5)
	d := e.Decide(s, "ghost")
	if d.Type != battle.ActionPass {
		t.Fatalf("unknown unit must produce PASS, got %+v", d)
	}
}
