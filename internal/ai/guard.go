package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/battle"
)

// RunGuarded executes fn with a hard deadline and panic containment.
// fn must work on a snapshot only: on timeout the goroutine is abandoned,
// not cancelled, and must not be able to touch live battle state. The
// fallback for every failure mode is a pass decision, so a broken
// strategy stalls one unit for one turn at worst.
func RunGuarded(ctx context.Context, log *zap.Logger, timeout time.Duration, label, unitID string, fn func() Decision) Decision {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan Decision, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("guarded decision panicked",
					zap.String("phase", label),
					zap.String("unit_id", unitID),
					zap.Any("error", r))
				ch <- Pass("decision failure")
			}
		}()
		ch <- fn()
	}()

	select {
	case d := <-ch:
		return d
	case <-ctx.Done():
		log.Warn("guarded decision timed out",
			zap.String("phase", label),
			zap.String("unit_id", unitID),
			zap.Duration("timeout", timeout))
		return Pass("decision timeout")
	}
}

// Validate re-checks a decision against the live state before it is
// submitted. The engine works on a snapshot, so by submission time the
// target may be dead or the cell taken; an invalid decision degrades to
// a pass instead of bouncing off the executor.
func Validate(d Decision, state *battle.State, unitID string) Decision {
	u := state.Unit(unitID)
	if u == nil || !u.Alive {
		return Pass("unit gone")
	}
	switch d.Type {
	case battle.ActionMove:
		if !state.IsValidPosition(d.X, d.Y) {
			return Pass("move target no longer free")
		}
	case battle.ActionAttack, battle.ActionSkill, battle.ActionSpell:
		if d.TargetID == "" {
			return d
		}
		if t := state.Unit(d.TargetID); t != nil {
			if !t.Alive {
				return Pass("target already down")
			}
			return d
		}
		if o := state.Obstacle(d.TargetID); o != nil {
			return d
		}
		return Pass("target gone")
	}
	return d
}
