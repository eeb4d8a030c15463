package battle

import (
	"github.com/wartide/arena/internal/data"
)

// UnitSeed is the battle-setup form of a persisted unit record. The
// simulation is memory-resident for the match; persistence supplies seeds
// once and is not consulted again until the battle ends.
type UnitSeed struct {
	ID           string
	OwnerID      string
	Name         string
	Category     string
	ClassCode    string // hero class template, "" for troops/monsters
	Attrs        data.Attributes
	MaxHP        int // 0 = derived from vitality
	PhysProt     int
	MagProt      int
	X, Y         int
	AttackRange  int // 0 = melee
	VisionRange  int // 0 = class/default vision
	Features     []string
	Spells       []string
	AIControlled bool
}

// ObstacleSeed describes one piece of destructible terrain.
type ObstacleSeed struct {
	ID    string
	X, Y  int
	MaxHP int
}

// AddUnits registers unit seeds while the battle is WAITING. The seeds
// are retained for rematch resets.
func (b *Battle) AddUnits(seeds ...UnitSeed) error {
	if b.phase != PhaseWaiting {
		return &Reject{Reason: RejectBattleNotActive, Detail: "battle already started"}
	}
	b.unitSeeds = append(b.unitSeeds, seeds...)
	return nil
}

// AddObstacles registers obstacle seeds while the battle is WAITING.
func (b *Battle) AddObstacles(seeds ...ObstacleSeed) error {
	if b.phase != PhaseWaiting {
		return &Reject{Reason: RejectBattleNotActive, Detail: "battle already started"}
	}
	b.obstacleSeeds = append(b.obstacleSeeds, seeds...)
	return nil
}

// deploy builds fresh entities from the retained seeds and computes the
// action order. Runs on Start and on every rematch.
func (b *Battle) deploy() error {
	for i := range b.obstacleSeeds {
		s := &b.obstacleSeeds[i]
		if err := b.state.AddObstacle(&Obstacle{
			ID: s.ID, X: s.X, Y: s.Y, HP: s.MaxHP, MaxHP: s.MaxHP,
		}); err != nil {
			return err
		}
	}
	for i := range b.unitSeeds {
		if err := b.state.AddUnit(b.buildUnit(&b.unitSeeds[i])); err != nil {
			return err
		}
	}
	b.sched.Build(b.state.Units())
	return nil
}

// buildUnit materializes a seed, filling gaps from the hero class
// template and the battle defaults.
func (b *Battle) buildUnit(s *UnitSeed) *Unit {
	attrs := s.Attrs
	features := append([]string(nil), s.Features...)
	spells := append([]string(nil), s.Spells...)
	vision := s.VisionRange

	if cls := b.classes.Get(s.ClassCode); cls != nil {
		if attrs == (data.Attributes{}) {
			attrs = cls.Base
		}
		features = append(features, cls.Features...)
		spells = append(spells, cls.Spells...)
		if vision == 0 {
			vision = cls.VisionRange
		}
	}
	if vision == 0 {
		vision = b.cfg.VisionRange
	}

	maxHP := s.MaxHP
	if maxHP == 0 {
		maxHP = attrs.Vitality * 10
	}
	attackRange := s.AttackRange
	if attackRange == 0 {
		attackRange = 1
	}

	return &Unit{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Category:     s.Category,
		AIControlled: s.AIControlled,
		Attrs:        attrs,
		HP:           maxHP,
		MaxHP:        maxHP,
		PhysProt:     s.PhysProt,
		MaxPhysProt:  s.PhysProt,
		MagProt:      s.MagProt,
		MaxMagProt:   s.MagProt,
		X:            s.X,
		Y:            s.Y,
		VisionRange:  vision,
		AttackRange:  attackRange,
		Features:     features,
		Spells:       spells,
		Cooldowns:    make(map[string]int),
		Conditions:   make(map[string]int),
		Alive:        true,
	}
}
