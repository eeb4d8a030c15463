package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AI behavior names. Each selects a registered strategy in internal/ai.
const (
	BehaviorAggressive = "AGGRESSIVE"
	BehaviorTactical   = "TACTICAL"
	BehaviorRanged     = "RANGED"
	BehaviorSupport    = "SUPPORT"
	BehaviorDefensive  = "DEFENSIVE"
)

// AIProfile configures a non-human unit's decision making. Resolved from
// the unit category at battle setup and immutable for the battle.
type AIProfile struct {
	Behavior                string
	SkillPriority           []string // ability codes, tried in order
	PreferredRange          int      // Chebyshev distance the unit tries to hold
	RetreatThreshold        float64  // hp fraction at or below which it retreats
	FocusWeakTargets        bool
	PrioritizeHealingAllies bool
}

// AIProfileTable maps unit category to its decision profile.
type AIProfileTable struct {
	profiles map[string]*AIProfile
}

// Get returns the profile for a unit category, falling back to a stock
// aggressive profile when the category has no entry. The AI pipeline must
// always have a profile to run with.
func (t *AIProfileTable) Get(category string) *AIProfile {
	if t != nil {
		if p, ok := t.profiles[category]; ok {
			return p
		}
	}
	return &AIProfile{
		Behavior:         BehaviorAggressive,
		PreferredRange:   1,
		RetreatThreshold: 0.15,
	}
}

// Count returns the number of loaded profiles.
// All exposes the table for validation tooling.
func (t *AIProfileTable) All() map[string]*AIProfile {
	if t == nil {
		return nil
	}
	return t.profiles
}

func (t *AIProfileTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.profiles)
}

// --- YAML loading ---

type aiProfileEntry struct {
	Category                string   `yaml:"category"`
	Behavior                string   `yaml:"behavior"`
	SkillPriority           []string `yaml:"skill_priority"`
	PreferredRange          int      `yaml:"preferred_range"`
	RetreatThreshold        float64  `yaml:"retreat_threshold"`
	FocusWeakTargets        bool     `yaml:"focus_weak_targets"`
	PrioritizeHealingAllies bool     `yaml:"prioritize_healing_allies"`
}

type aiProfileFile struct {
	Profiles []aiProfileEntry `yaml:"profiles"`
}

// LoadAIProfileTable loads AI profiles from a YAML file.
func LoadAIProfileTable(path string) (*AIProfileTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ai profile table: %w", err)
	}

	var f aiProfileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ai profile table: %w", err)
	}

	t := &AIProfileTable{
		profiles: make(map[string]*AIProfile, len(f.Profiles)),
	}
	for i := range f.Profiles {
		e := &f.Profiles[i]
		t.profiles[e.Category] = &AIProfile{
			Behavior:                e.Behavior,
			SkillPriority:           e.SkillPriority,
			PreferredRange:          e.PreferredRange,
			RetreatThreshold:        e.RetreatThreshold,
			FocusWeakTargets:        e.FocusWeakTargets,
			PrioritizeHealingAllies: e.PrioritizeHealingAllies,
		}
	}
	return t, nil
}
