package ai

import (
	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// Assessment is the self-evaluation that opens every decision.
type Assessment struct {
	HPPercent     float64
	IsCritical    bool // ≤ 25%
	IsWounded     bool // ≤ 50%
	HasPhysProt   bool
	HasMagProt    bool
	// LastDamageType is inferred from protection deltas. The heuristic is
	// lossy: mixed physical+magical damage in one round reads as physical.
	LastDamageType string
	ShouldRetreat  bool
}

// neutralAssessment is the safe default when self-assessment fails:
// full HP, no retreat.
func neutralAssessment() Assessment {
	return Assessment{HPPercent: 1.0}
}

// Assess computes the unit's self-assessment. Any panic inside is
// contained and replaced with the neutral default; assessment failures
// must never escape into the scheduler.
func Assess(u *battle.Unit, profile *data.AIProfile) (a Assessment) {
	defer func() {
		if recover() != nil {
			a = neutralAssessment()
		}
	}()

	a.HPPercent = u.HPPercent()
	a.IsCritical = a.HPPercent <= 0.25
	a.IsWounded = a.HPPercent <= 0.50
	a.HasPhysProt = u.PhysProt > 0
	a.HasMagProt = u.MagProt > 0

	physLost := u.MaxPhysProt - u.PhysProt
	magLost := u.MaxMagProt - u.MagProt
	switch {
	case physLost > 0:
		a.LastDamageType = data.DamagePhysical
	case magLost > 0:
		a.LastDamageType = data.DamageMagical
	case u.HP < u.MaxHP:
		a.LastDamageType = data.DamageTrue
	}

	a.ShouldRetreat = a.HPPercent <= profile.RetreatThreshold
	return a
}
