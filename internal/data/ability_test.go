package data

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadAbilityTableCompilesFormulas(t *testing.T) {
	path := writeTable(t, "abilities.yaml", `abilities:
  - code: FIRE
    name: Fire Bolt
    kind: SPELL
    target_shape: UNIT
    range: 4
    cooldown: 2
    effect: DAMAGE
    damage_type: MAGICAL
    amount: "will + 4 - target_will / 2"
`)
	table, err := LoadAbilityTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := table.Get("FIRE")
	if def == nil {
		t.Fatalf("FIRE not found")
	}

	got, err := def.Amount(FormulaEnv{Will: 6, TargetWill: 4})
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	if got != 8 {
		t.Fatalf("6 + 4 - 4/2 = 8, got %d", got)
	}
}

func TestLoadAbilityTableRejectsBadFormula(t *testing.T) {
	path := writeTable(t, "abilities.yaml", `abilities:
  - code: BROKEN
    name: Broken
    kind: SPELL
    target_shape: UNIT
    effect: DAMAGE
    amount: "will +* nonsense("
`)
	if _, err := LoadAbilityTable(path); err == nil {
		t.Fatalf("bad formula must fail the whole load")
	}
}

func TestAbilityTableGetUnknownReturnsNil(t *testing.T) {
	path := writeTable(t, "abilities.yaml", `abilities: []`)
	table, err := LoadAbilityTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Get("NOPE") != nil {
		t.Fatalf("unknown code must return nil, not panic")
	}
}

func TestProfileTableFallsBackToAggressive(t *testing.T) {
	path := writeTable(t, "profiles.yaml", `profiles:
  - category: HERO
    behavior: TACTICAL
    retreat_threshold: 0.25
`)
	table, err := LoadAIProfileTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := table.Get("HERO").Behavior; got != BehaviorTactical {
		t.Fatalf("expected TACTICAL, got %s", got)
	}
	fallback := table.Get("MONSTER")
	if fallback == nil || fallback.Behavior != BehaviorAggressive {
		t.Fatalf("unknown category must fall back to the stock aggressive profile, got %+v", fallback)
	}
}
