package ai

import "github.com/wartide/arena/internal/battle"

// Decision is the output contract of the AI pipeline. Reason is a
// human-readable diagnostic and never load-bearing.
type Decision struct {
	Type     string // MOVE, ATTACK, SKILL, SPELL, DASH, PASS
	TargetID string
	Code     string // ability code for SKILL/SPELL
	X, Y     int    // target position for MOVE and POSITION casts
	Reason   string
}

// Pass builds the safe neutral decision.
func Pass(reason string) Decision {
	return Decision{Type: battle.ActionPass, Reason: reason}
}

// Request converts the decision into an executor request for unitID.
func (d Decision) Request(unitID string) battle.Request {
	return battle.Request{
		UnitID:   unitID,
		Type:     d.Type,
		TargetID: d.TargetID,
		Code:     d.Code,
		X:        d.X,
		Y:        d.Y,
		Reason:   d.Reason,
	}
}
