package data

import (
	"fmt"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// Ability kinds. Skills come from unit features, spells from spellbooks;
// both resolve through the same executor path.
const (
	AbilityKindSkill = "SKILL"
	AbilityKindSpell = "SPELL"
)

// Target shapes an ability may declare.
const (
	TargetSelf     = "SELF"
	TargetUnit     = "UNIT"
	TargetPosition = "POSITION"
)

// Effect categories, used both by the executor and by AI scoring.
const (
	EffectDamage = "DAMAGE"
	EffectHeal   = "HEAL"
	EffectBuff   = "BUFF"
	EffectDebuff = "DEBUFF"
	EffectSummon = "SUMMON"
)

// Damage types. TRUE damage bypasses both protections.
const (
	DamagePhysical = "PHYSICAL"
	DamageMagical  = "MAGICAL"
	DamageTrue     = "TRUE"
)

// FormulaEnv is the expression environment available to ability amount
// formulas, e.g. "combat * 2 + 5" or "target_max_hp / 4".
type FormulaEnv struct {
	Combat           int `expr:"combat"`
	Speed            int `expr:"speed"`
	Focus            int `expr:"focus"`
	Resistance       int `expr:"resistance"`
	Will             int `expr:"will"`
	Vitality         int `expr:"vitality"`
	TargetResistance int `expr:"target_resistance"`
	TargetWill       int `expr:"target_will"`
	TargetHP         int `expr:"target_hp"`
	TargetMaxHP      int `expr:"target_max_hp"`
}

// AbilityDefinition is a fully resolved ability template. Amount formulas
// are compiled at load time; a nil program means the ability has no
// numeric effect (pure condition application).
type AbilityDefinition struct {
	Code           string
	Name           string
	Kind           string // SKILL or SPELL
	TargetShape    string // SELF, UNIT, POSITION
	Range          int    // Chebyshev cast range; 0 = self only
	AreaRadius     int    // Chebyshev radius around target position; 0 = single target
	Cooldown       int    // rounds before reuse
	ConsumesAction bool
	Evadable       bool   // evasion check before damage
	Effect         string // DAMAGE, HEAL, BUFF, DEBUFF
	DamageType     string // PHYSICAL, MAGICAL, TRUE (DAMAGE effect only)
	AmountSrc      string
	Condition      string // condition code applied on hit, "" = none
	ConditionTurns int
	SummonCode     string // summon template code (SUMMON effect only)

	program *vm.Program
}

// Amount evaluates the compiled formula against env. Abilities without a
// formula yield 0.
func (a *AbilityDefinition) Amount(env FormulaEnv) (int, error) {
	if a.program == nil {
		return 0, nil
	}
	out, err := vm.Run(a.program, env)
	if err != nil {
		return 0, fmt.Errorf("ability %s amount: %w", a.Code, err)
	}
	return out.(int), nil
}

// AbilityTable is the injected read-only ability catalog, key = ability code.
type AbilityTable struct {
	abilities map[string]*AbilityDefinition
}

// Get returns the ability for code, or nil when unknown.
func (t *AbilityTable) Get(code string) *AbilityDefinition {
	if t == nil {
		return nil
	}
	return t.abilities[code]
}

// Count returns the number of loaded abilities.
// All exposes the catalog for validation tooling.
func (t *AbilityTable) All() map[string]*AbilityDefinition {
	if t == nil {
		return nil
	}
	return t.abilities
}

func (t *AbilityTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.abilities)
}

// --- YAML loading ---

type abilityEntry struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	Kind           string `yaml:"kind"`
	TargetShape    string `yaml:"target_shape"`
	Range          int    `yaml:"range"`
	AreaRadius     int    `yaml:"area_radius"`
	Cooldown       int    `yaml:"cooldown"`
	ConsumesAction bool   `yaml:"consumes_action"`
	Evadable       bool   `yaml:"evadable"`
	Effect         string `yaml:"effect"`
	DamageType     string `yaml:"damage_type"`
	Amount         string `yaml:"amount"`
	Condition      string `yaml:"condition"`
	ConditionTurns int    `yaml:"condition_turns"`
	SummonCode     string `yaml:"summon_code"`
}

type abilityFile struct {
	Abilities []abilityEntry `yaml:"abilities"`
}

// LoadAbilityTable loads the ability catalog from a YAML file and compiles
// every amount formula. A formula that fails to compile fails the whole
// load. Bad content should never reach a live match.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ability catalog: %w", err)
	}

	var f abilityFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ability catalog: %w", err)
	}

	return buildAbilityTable(f.Abilities)
}

func buildAbilityTable(entries []abilityEntry) (*AbilityTable, error) {
	t := &AbilityTable{
		abilities: make(map[string]*AbilityDefinition, len(entries)),
	}

	for i := range entries {
		e := &entries[i]
		def := &AbilityDefinition{
			Code:           e.Code,
			Name:           e.Name,
			Kind:           e.Kind,
			TargetShape:    e.TargetShape,
			Range:          e.Range,
			AreaRadius:     e.AreaRadius,
			Cooldown:       e.Cooldown,
			ConsumesAction: e.ConsumesAction,
			Evadable:       e.Evadable,
			Effect:         e.Effect,
			DamageType:     e.DamageType,
			AmountSrc:      e.Amount,
			Condition:      e.Condition,
			ConditionTurns: e.ConditionTurns,
			SummonCode:     e.SummonCode,
		}
		if e.Amount != "" {
			prog, err := expr.Compile(e.Amount, expr.Env(FormulaEnv{}), expr.AsInt())
			if err != nil {
				return nil, fmt.Errorf("compile ability %q amount %q: %w", e.Code, e.Amount, err)
			}
			def.program = prog
		}
		t.abilities[e.Code] = def
	}

	return t, nil
}
