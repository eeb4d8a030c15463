package battle

import (
	"testing"

	"github.com/wartide/arena/internal/data"
)

func TestBasicAttackDamageFloor(t *testing.T) {
	attacker := testUnit("a", "p1", 0, 0)
	attacker.Attrs.Combat = 5
	target := testUnit("b", "p2", 1, 0)
	target.Attrs.Resistance = 8

	if got := BasicAttackDamage(attacker, target); got != 1 {
		t.Fatalf("expected damage floor 1, got %d", got)
	}
}

func TestProtectionAbsorbsBeforeHP(t *testing.T) {
	s := testState(5, 5)
	attacker := mustAdd(t, s, testUnit("a", "p1", 0, 0))
	target := testUnit("b", "p2", 1, 0)
	target.HP = 10
	target.PhysProt, target.MaxPhysProt = 3, 3
	mustAdd(t, s, target)

	res := s.ResolveDamage(attacker, target, data.DamagePhysical, 5, false, nil)

	if res.Absorbed != 3 || res.Damage != 2 {
		t.Fatalf("expected absorb=3 damage=2, got absorb=%d damage=%d", res.Absorbed, res.Damage)
	}
	if target.PhysProt != 0 || target.HP != 8 {
		t.Fatalf("expected prot=0 hp=8, got prot=%d hp=%d", target.PhysProt, target.HP)
	}
}

func TestWrongProtectionDoesNotAbsorb(t *testing.T) {
	s := testState(5, 5)
	attacker := mustAdd(t, s, testUnit("a", "p1", 0, 0))
	target := testUnit("b", "p2", 1, 0)
	target.HP = 10
	target.PhysProt = 5
	mustAdd(t, s, target)

	res := s.ResolveDamage(attacker, target, data.DamageMagical, 4, false, nil)

	if res.Absorbed != 0 || target.HP != 6 || target.PhysProt != 5 {
		t.Fatalf("magical damage must ignore physical protection: absorb=%d hp=%d prot=%d",
			res.Absorbed, target.HP, target.PhysProt)
	}
}

func TestTrueDamageBypassesProtections(t *testing.T) {
	s := testState(5, 5)
	attacker := mustAdd(t, s, testUnit("a", "p1", 0, 0))
	target := testUnit("b", "p2", 1, 0)
	target.HP = 10
	target.PhysProt = 5
	target.MagProt = 5
	mustAdd(t, s, target)

	res := s.ResolveDamage(attacker, target, data.DamageTrue, 4, false, nil)

	if res.Absorbed != 0 || target.HP != 6 {
		t.Fatalf("true damage must bypass protections: absorb=%d hp=%d", res.Absorbed, target.HP)
	}
	if target.PhysProt != 5 || target.MagProt != 5 {
		t.Fatalf("protections must be untouched, got phys=%d mag=%d", target.PhysProt, target.MagProt)
	}
}

func TestDefeatMarkedInSameStep(t *testing.T) {
	s := testState(5, 5)
	var gotKiller, gotCategory string
	s.SetDefeatCallback(func(killerID, victimCategory string) {
		gotKiller, gotCategory = killerID, victimCategory
	})
	attacker := mustAdd(t, s, testUnit("a", "p1", 0, 0))
	target := testUnit("b", "p2", 1, 0)
	target.HP = 3
	mustAdd(t, s, target)

	res := s.ResolveDamage(attacker, target, data.DamagePhysical, 10, false, nil)

	if !res.Defeated {
		t.Fatalf("expected defeat in the same resolution step")
	}
	if target.Alive || target.HP != 0 {
		t.Fatalf("expected dead unit at 0 hp, got alive=%v hp=%d", target.Alive, target.HP)
	}
	if gotKiller != "a" || gotCategory != CategoryTroop {
		t.Fatalf("defeat callback got killer=%q category=%q", gotKiller, gotCategory)
	}
	if s.UnitAt(1, 0) != nil {
		t.Fatalf("dead unit must vacate its cell")
	}
}

func TestHealCapsAtMaxAndNeverRevives(t *testing.T) {
	s := testState(5, 5)
	u := testUnit("a", "p1", 0, 0)
	u.HP = 27
	mustAdd(t, s, u)

	res := s.ResolveHeal(u, 10)
	if res.Healing != 3 || u.HP != 30 {
		t.Fatalf("expected heal capped at max, got healing=%d hp=%d", res.Healing, u.HP)
	}

	dead := testUnit("b", "p2", 1, 0)
	mustAdd(t, s, dead)
	s.damage(dead, 30, "")
	res = s.ResolveHeal(dead, 10)
	if res.Healing != 0 || dead.Alive {
		t.Fatalf("heal must not revive: healing=%d alive=%v", res.Healing, dead.Alive)
	}
}

func TestEvadeChanceClamped(t *testing.T) {
	fast := testUnit("fast", "p1", 0, 0)
	fast.Attrs.Speed = 30
	slow := testUnit("slow", "p2", 1, 0)
	slow.Attrs.Focus = 0

	if c := evadeChance(slow, fast); c != 0.5 {
		t.Fatalf("expected clamp at 0.5, got %v", c)
	}
	precise := testUnit("precise", "p2", 2, 0)
	precise.Attrs.Focus = 30
	if c := evadeChance(precise, slow); c != 0 {
		t.Fatalf("expected floor at 0, got %v", c)
	}
}
