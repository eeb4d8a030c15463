package ai

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

const testAbilityYAML = `abilities:
  - code: FIRE
    name: Fire Bolt
    kind: SPELL
    target_shape: UNIT
    range: 4
    cooldown: 2
    consumes_action: true
    effect: DAMAGE
    damage_type: MAGICAL
    amount: "will + 4"
  - code: BLAST
    name: Blast
    kind: SPELL
    target_shape: POSITION
    range: 6
    area_radius: 1
    cooldown: 3
    consumes_action: true
    effect: DAMAGE
    damage_type: MAGICAL
    amount: "6"
  - code: MEND
    name: Mend
    kind: SPELL
    target_shape: UNIT
    range: 3
    cooldown: 1
    consumes_action: true
    effect: HEAL
    amount: "5"
`

const testProfileYAML = `profiles:
  - category: TROOP
    behavior: AGGRESSIVE
    retreat_threshold: 0.0
    focus_weak_targets: true
  - category: HERO
    behavior: SUPPORT
    retreat_threshold: 0.4
    prioritize_healing_allies: true
  - category: REGENT
    behavior: RANGED
    preferred_range: 4
    retreat_threshold: 0.2
`

func testTables(t *testing.T) (*data.AbilityTable, *data.AIProfileTable) {
	t.Helper()
	dir := t.TempDir()

	apath := filepath.Join(dir, "abilities.yaml")
	if err := os.WriteFile(apath, []byte(testAbilityYAML), 0o644); err != nil {
		t.Fatalf("write abilities: %v", err)
	}
	abilities, err := data.LoadAbilityTable(apath)
	if err != nil {
		t.Fatalf("load abilities: %v", err)
	}

	ppath := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(ppath, []byte(testProfileYAML), 0o644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	profiles, err := data.LoadAIProfileTable(ppath)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	return abilities, profiles
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	abilities, profiles := testTables(t)
	return NewEngine(abilities, profiles, zap.NewNop())
}

func testState(w, h int) *battle.State {
	return battle.NewState(battle.Grid{Width: w, Height: h}, zap.NewNop())
}

func addUnit(t *testing.T, s *battle.State, id, owner, category string, x, y int) *battle.Unit {
	t.Helper()
	u := &battle.Unit{
		ID: id, OwnerID: owner, Name: id, Category: category,
		AIControlled: true,
		Attrs: data.Attributes{
			Combat: 5, Speed: 3, Focus: 3, Resistance: 2, Will: 3, Vitality: 3,
		},
		HP: 30, MaxHP: 30,
		MovesLeft: 3, ActionsLeft: 1, AttacksLeft: 1,
		X: x, Y: y,
		VisionRange: 10, AttackRange: 1,
		Cooldowns:  make(map[string]int),
		Conditions: make(map[string]int),
		Alive:      true,
	}
	if err := s.AddUnit(u); err != nil {
		t.Fatalf("add unit %s: %v", id, err)
	}
	return u
}
