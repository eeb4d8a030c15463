package battle

import (
	"go.uber.org/zap"

	"github.com/wartide/arena/internal/core/event"
)

// Player is a session participant. Units reference their player by
// OwnerID.
type Player struct {
	ID   string
	Name string

	Connected    bool
	GraceLeft    int // seconds until auto-surrender while disconnected
	Surrendered  bool
	WantsRematch bool
}

// Join adds a player to the lobby. Only valid while WAITING.
func (b *Battle) Join(playerID, name string) error {
	if b.phase != PhaseWaiting {
		return &Reject{Reason: RejectBattleNotActive, Detail: "battle already started"}
	}
	if _, exists := b.players[playerID]; exists {
		return &Reject{Reason: RejectNotOwner, Detail: "already joined"}
	}
	b.players[playerID] = &Player{ID: playerID, Name: name, Connected: true}
	b.playerIDs = append(b.playerIDs, playerID)
	return nil
}

// Disconnect marks an ungraceful drop. During ACTIVE the player's units
// stay on the field but are un-actionable by their owner until reconnect;
// the grace window counts down via Tick.
func (b *Battle) Disconnect(playerID string) {
	p := b.players[playerID]
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	if b.phase == PhaseActive && !p.Surrendered {
		p.GraceLeft = int(b.sessionCfg.GraceWindow.Seconds())
	}
	b.bus.Publish(event.PlayerDisconnected{BattleID: b.ID, PlayerID: playerID})
}

// Reconnect restores a player inside the grace window.
func (b *Battle) Reconnect(playerID string) error {
	p := b.players[playerID]
	if p == nil {
		return &Reject{Reason: RejectNotOwner, Detail: "unknown player"}
	}
	if p.Surrendered {
		return &Reject{Reason: RejectBattleNotActive, Detail: "already surrendered"}
	}
	p.Connected = true
	p.GraceLeft = 0
	return nil
}

// Leave is an explicit departure: during ACTIVE it is an immediate
// surrender, during WAITING it just removes the player from the lobby.
func (b *Battle) Leave(playerID string) {
	p := b.players[playerID]
	if p == nil {
		return
	}
	if b.phase == PhaseWaiting {
		delete(b.players, playerID)
		for i, id := range b.playerIDs {
			if id == playerID {
				b.playerIDs = append(b.playerIDs[:i], b.playerIDs[i+1:]...)
				break
			}
		}
		return
	}
	p.Connected = false
	b.surrender(playerID, "left")
}

// Surrender is the explicit concede request.
func (b *Battle) Surrender(playerID string) error {
	p := b.players[playerID]
	if p == nil {
		return &Reject{Reason: RejectNotOwner, Detail: "unknown player"}
	}
	if p.Surrendered {
		return nil
	}
	b.surrender(playerID, "explicit")
	return nil
}

// surrender marks every unit of the player not-alive and re-runs the
// battle-end check. Surrender kills fire no defeat callback since they are
// not combat kills.
func (b *Battle) surrender(playerID, reason string) {
	p := b.players[playerID]
	if p == nil || p.Surrendered {
		return
	}
	p.Surrendered = true
	p.GraceLeft = 0
	for _, u := range b.state.Units() {
		if u.OwnerID == playerID && u.Alive {
			b.state.markDead(u)
		}
	}
	b.log.Info("player surrendered",
		zap.String("battle", b.ID),
		zap.String("player", playerID),
		zap.String("reason", reason))
	b.bus.Publish(event.PlayerSurrendered{BattleID: b.ID, PlayerID: playerID, Reason: reason})

	// The active unit may just have died with its owner's surrender.
	active := b.state.Unit(b.sched.ActiveUnitID())
	b.checkEnd()
	if b.phase == PhaseActive && active != nil && !active.Alive {
		b.turnLoop()
	}
}

// tickGraceWindows counts down disconnected players toward
// auto-surrender. Driven by the per-second Tick message.
func (b *Battle) tickGraceWindows() {
	for _, id := range b.playerIDs {
		p := b.players[id]
		if p.Connected || p.Surrendered || p.GraceLeft <= 0 {
			continue
		}
		p.GraceLeft--
		if p.GraceLeft == 0 {
			b.surrender(id, "grace_expired")
			if b.phase != PhaseActive {
				return
			}
		}
	}
}

// RequestRematch records a rematch vote. When every remaining
// (non-surrendered) player has voted, the battle resets and restarts.
func (b *Battle) RequestRematch(playerID string) error {
	if b.phase != PhaseEnded {
		return &Reject{Reason: RejectBattleNotActive, Detail: "battle still running"}
	}
	if b.rematchLeft == 0 {
		return &Reject{Reason: RejectBattleNotActive, Detail: "rematch window closed"}
	}
	p := b.players[playerID]
	if p == nil {
		return &Reject{Reason: RejectNotOwner, Detail: "unknown player"}
	}
	if p.Surrendered {
		return &Reject{Reason: RejectNotOwner, Detail: "surrendered players cannot rematch"}
	}
	p.WantsRematch = true

	for _, id := range b.playerIDs {
		other := b.players[id]
		if !other.Surrendered && !other.WantsRematch {
			return nil // still waiting on votes
		}
	}
	return b.rematch()
}

// rematch resets unit, obstacle, and turn state from the retained seeds
// and restarts at ACTIVE.
func (b *Battle) rematch() error {
	for _, id := range b.playerIDs {
		p := b.players[id]
		p.WantsRematch = false
		p.Surrendered = false
		p.GraceLeft = 0
	}
	b.winnerID = ""
	b.winReason = ""
	b.ended = false
	b.state = NewState(b.state.Grid, b.log)
	b.state.SetDefeatCallback(b.onDefeat)
	b.exec = NewExecutor(b.state, b.abilities, b.summons, b.rng)
	b.sched = NewScheduler(b.cfg.TurnDuration)
	if err := b.deploy(); err != nil {
		return err
	}
	b.phase = PhaseActive
	b.bus.Publish(event.RematchStarted{BattleID: b.ID})
	b.turnLoop()
	return nil
}
