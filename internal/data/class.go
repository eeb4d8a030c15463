package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Attributes are the six base combat attributes shared by every unit
// template. They are immutable for a battle except via buff effects.
type Attributes struct {
	Combat     int `yaml:"combat"`
	Speed      int `yaml:"speed"`
	Focus      int `yaml:"focus"`
	Resistance int `yaml:"resistance"`
	Will       int `yaml:"will"`
	Vitality   int `yaml:"vitality"`
}

// HeroClassDefinition is a hero class template (class table).
type HeroClassDefinition struct {
	Code        string
	Name        string
	Base        Attributes
	VisionRange int
	Features    []string // skill codes granted by the class
	Spells      []string // spell codes granted by the class
}

// HeroClassTable is the injected read-only class catalog, key = class code.
type HeroClassTable struct {
	classes map[string]*HeroClassDefinition
}

// Get returns the class for code, or nil when unknown.
func (t *HeroClassTable) Get(code string) *HeroClassDefinition {
	if t == nil {
		return nil
	}
	return t.classes[code]
}

// Count returns the number of loaded classes.
// All exposes the catalog for validation tooling.
func (t *HeroClassTable) All() map[string]*HeroClassDefinition {
	if t == nil {
		return nil
	}
	return t.classes
}

func (t *HeroClassTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.classes)
}

// --- YAML loading ---

type classEntry struct {
	Code        string     `yaml:"code"`
	Name        string     `yaml:"name"`
	Base        Attributes `yaml:"base"`
	VisionRange int        `yaml:"vision_range"`
	Features    []string   `yaml:"features"`
	Spells      []string   `yaml:"spells"`
}

type classFile struct {
	Classes []classEntry `yaml:"classes"`
}

// LoadHeroClassTable loads the hero class catalog from a YAML file.
func LoadHeroClassTable(path string) (*HeroClassTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class catalog: %w", err)
	}

	var f classFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse class catalog: %w", err)
	}

	t := &HeroClassTable{
		classes: make(map[string]*HeroClassDefinition, len(f.Classes)),
	}
	for i := range f.Classes {
		e := &f.Classes[i]
		t.classes[e.Code] = &HeroClassDefinition{
			Code:        e.Code,
			Name:        e.Name,
			Base:        e.Base,
			VisionRange: e.VisionRange,
			Features:    e.Features,
			Spells:      e.Spells,
		}
	}
	return t, nil
}
