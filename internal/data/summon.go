package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SummonTemplate describes a summonable creature (summon table).
// Summoned units enter the action order at the end of the current round.
type SummonTemplate struct {
	Code        string
	Name        string
	Base        Attributes
	MaxHP       int
	PhysProt    int
	MagProt     int
	VisionRange int
	Features    []string
	Spells      []string
}

// SummonTable is the injected read-only summon catalog, key = summon code.
type SummonTable struct {
	summons map[string]*SummonTemplate
}

// Get returns the template for code, or nil when unknown.
func (t *SummonTable) Get(code string) *SummonTemplate {
	if t == nil {
		return nil
	}
	return t.summons[code]
}

// Count returns the number of loaded summon templates.
// All exposes the catalog for validation tooling.
func (t *SummonTable) All() map[string]*SummonTemplate {
	if t == nil {
		return nil
	}
	return t.summons
}

func (t *SummonTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.summons)
}

// --- YAML loading ---

type summonEntry struct {
	Code        string     `yaml:"code"`
	Name        string     `yaml:"name"`
	Base        Attributes `yaml:"base"`
	MaxHP       int        `yaml:"max_hp"`
	PhysProt    int        `yaml:"physical_protection"`
	MagProt     int        `yaml:"magical_protection"`
	VisionRange int        `yaml:"vision_range"`
	Features    []string   `yaml:"features"`
	Spells      []string   `yaml:"spells"`
}

type summonFile struct {
	Summons []summonEntry `yaml:"summons"`
}

// LoadSummonTable loads the summon catalog from a YAML file.
func LoadSummonTable(path string) (*SummonTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summon catalog: %w", err)
	}

	var f summonFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse summon catalog: %w", err)
	}

	t := &SummonTable{
		summons: make(map[string]*SummonTemplate, len(f.Summons)),
	}
	for i := range f.Summons {
		e := &f.Summons[i]
		t.summons[e.Code] = &SummonTemplate{
			Code:        e.Code,
			Name:        e.Name,
			Base:        e.Base,
			MaxHP:       e.MaxHP,
			PhysProt:    e.PhysProt,
			MagProt:     e.MagProt,
			VisionRange: e.VisionRange,
			Features:    e.Features,
			Spells:      e.Spells,
		}
	}
	return t, nil
}
