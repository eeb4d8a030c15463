package ai

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

func TestRunGuardedReturnsDecision(t *testing.T) {
	d := RunGuarded(context.Background(), zap.NewNop(), time.Second, "decide", "u1",
		func() Decision {
			return Decision{Type: battle.ActionAttack, TargetID: "e1"}
		})
	if d.Type != battle.ActionAttack || d.TargetID != "e1" {
		t.Fatalf("expected the wrapped decision, got %+v", d)
	}
}

func TestRunGuardedTimeoutFallsBackToPass(t *testing.T) {
	start := time.Now()
	d := RunGuarded(context.Background(), zap.NewNop(), 20*time.Millisecond, "decide", "u1",
		func() Decision {
			time.Sleep(5 * time.Second)
			return Decision{Type: battle.ActionAttack}
		})
	if d.Type != battle.ActionPass {
		t.Fatalf("timed-out decision must degrade to PASS, got %+v", d)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("guard must return at the deadline, took %v", elapsed)
	}
}

func TestRunGuardedPanicFallsBackToPass(t *testing.T) {
	d := RunGuarded(context.Background(), zap.NewNop(), time.Second, "decide", "u1",
		func() Decision {
			panic("strategy bug")
		})
	if d.Type != battle.ActionPass {
		t.Fatalf("panicking decision must degrade to PASS, got %+v", d)
	}
}

func TestValidateDegradesStaleDecisions(t *testing.T) {
	s := testState(5, 5)
	addUnit(t, s, "u1", "A", battle.CategoryTroop, 0, 0)
	dead := addUnit(t, s, "e1", "B", battle.CategoryTroop, 1, 0)
	addUnit(t, s, "e2", "B", battle.CategoryTroop, 2, 2)

	// Stale attack: target died between snapshot and submission.
	dead.Alive = false
	d := Validate(Decision{Type: battle.ActionAttack, TargetID: "e1"}, s, "u1")
	if d.Type != battle.ActionPass {
		t.Fatalf("attack on a dead target must degrade to PASS, got %+v", d)
	}

	// Stale move: cell got occupied.
	d = Validate(Decision{Type: battle.ActionMove, X: 2, Y: 2}, s, "u1")
	if d.Type != battle.ActionPass {
		t.Fatalf("move onto an occupied cell must degrade to PASS, got %+v", d)
	}

	// Still-valid decision passes through untouched.
	d = Validate(Decision{Type: battle.ActionMove, X: 1, Y: 1}, s, "u1")
	if d.Type != battle.ActionMove || d.X != 1 {
		t.Fatalf("valid decision must pass through, got %+v", d)
	}
}

func TestAssessPanicYieldsNeutral(t *testing.T) {
	// A nil unit makes the assessment panic; the neutral default reports
	// full HP and no retreat.
	a := Assess(nil, nil)
	if a.HPPercent != 1.0 || a.ShouldRetreat {
		t.Fatalf("expected neutral assessment, got %+v", a)
	}
}

func TestAssessInfersDamageTypeFromProtectionDeltas(t *testing.T) {
	s := testState(5, 5)
	u := addUnit(t, s, "u1", "A", battle.CategoryTroop, 0, 0)
	u.MaxPhysProt, u.PhysProt = 5, 2
	u.MaxMagProt, u.MagProt = 5, 5

	a := Assess(u, &data.AIProfile{})
	if a.LastDamageType != data.DamagePhysical {
		t.Fatalf("physical protection loss must read as physical damage, got %q", a.LastDamageType)
	}

	// Mixed deltas are ambiguous; physical wins the tie.
	u.MagProt = 3
	a = Assess(u, &data.AIProfile{})
	if a.LastDamageType != data.DamagePhysical {
		t.Fatalf("mixed deltas must resolve to physical, got %q", a.LastDamageType)
	}
}
