package battle

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

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
    range: 5
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
  - code: HEX
    name: Hex
    kind: SPELL
    target_shape: UNIT
    range: 4
    cooldown: 3
    consumes_action: true
    effect: DEBUFF
    condition: HEXED
    condition_turns: 2
  - code: RAISE_WOLF
    name: Summon Wolf
    kind: SPELL
    target_shape: SELF
    cooldown: 4
    consumes_action: true
    effect: SUMMON
    summon_code: WOLF
`

const testSummonYAML = `summons:
  - code: WOLF
    name: Wolf
    base: {combat: 5, speed: 6, focus: 4, resistance: 2, will: 1, vitality: 3}
    max_hp: 12
    vision_range: 7
`

func testAbilities(t *testing.T) *data.AbilityTable {
	t.Helper()
	return loadTable(t, "abilities.yaml", testAbilityYAML, data.LoadAbilityTable)
}

func testSummons(t *testing.T) *data.SummonTable {
	t.Helper()
	return loadTable(t, "summons.yaml", testSummonYAML, data.LoadSummonTable)
}

func loadTable[T any](t *testing.T, name, content string, load func(string) (T, error)) T {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	table, err := load(path)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return table
}

func testState(w, h int) *State {
	return NewState(Grid{Width: w, Height: h}, zap.NewNop())
}

// testUnit builds a minimal alive unit; callers adjust fields after.
func testUnit(id, owner string, x, y int) *Unit {
	return &Unit{
		ID:       id,
		OwnerID:  owner,
		Name:     id,
		Category: CategoryTroop,
		Attrs: data.Attributes{
			Combat: 5, Speed: 3, Focus: 3, Resistance: 2, Will: 3, Vitality: 3,
		},
		HP: 30, MaxHP: 30,
		ActionsLeft: 1, AttacksLeft: 1,
		X: x, Y: y,
		VisionRange: 8,
		AttackRange: 1,
		Cooldowns:   make(map[string]int),
		Conditions:  make(map[string]int),
		Alive:       true,
	}
}

func mustAdd(t *testing.T, s *State, u *Unit) *Unit {
	t.Helper()
	if err := s.AddUnit(u); err != nil {
		t.Fatalf("add unit %s: %v", u.ID, err)
	}
	return u
}
