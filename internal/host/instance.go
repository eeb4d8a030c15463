package host

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/core/event"
	"github.com/wartide/arena/internal/persist"
)

// Instance is the actor that owns one battle. Every touch of the battle,
// client actions, session changes, and clock ticks alike, is a closure on
// the command channel, executed by the single run goroutine. The battle
// itself needs no locks.
type Instance struct {
	ID     string
	battle *battle.Battle

	bus  *event.Bus
	cmds chan func()
	quit chan struct{}
	done chan struct{}
	log  *zap.Logger

	// Match journal, flushed to persistence when the battle ends.
	journal  []event.ActionApplied
	results  *persist.ResultRepo
	eventLog *persist.EventLogRepo

	tickRate time.Duration
	finished bool
}

func newInstance(id string, b *battle.Battle, bus *event.Bus, tickRate time.Duration,
	results *persist.ResultRepo, eventLog *persist.EventLogRepo, log *zap.Logger) *Instance {

	inst := &Instance{
		ID:       id,
		battle:   b,
		bus:      bus,
		cmds:     make(chan func(), 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      log,
		results:  results,
		eventLog: eventLog,
		tickRate: tickRate,
	}
	bus.Subscribe(event.ActionApplied{}, func(ev any) {
		inst.journal = append(inst.journal, ev.(event.ActionApplied))
	})
	bus.Subscribe(event.BattleEnded{}, func(ev any) {
		inst.onEnded(ev.(event.BattleEnded))
	})
	bus.Subscribe(event.RematchStarted{}, func(any) {
		// A rematch is a fresh journal and a fresh outcome.
		inst.finished = false
		inst.journal = nil
	})
	return inst
}

// run is the actor loop. Commands and ticks interleave on one goroutine;
// after each command the event bus is drained, so subscribers observe a
// consistent post-action state and cascaded events settle immediately.
func (i *Instance) run() {
	ticker := time.NewTicker(i.tickRate)
	defer ticker.Stop()
	defer close(i.done)

	for {
		select {
		case cmd := <-i.cmds:
			cmd()
			i.dispatch()
		case <-ticker.C:
			i.battle.Tick()
			i.dispatch()
		case <-i.quit:
			// Drain whatever was queued before the stop.
			for {
				select {
				case cmd := <-i.cmds:
					cmd()
					i.dispatch()
				default:
					return
				}
			}
		}
	}
}

func (i *Instance) dispatch() {
	i.bus.Drain()
}

// Do schedules fn on the actor goroutine and returns without waiting.
func (i *Instance) Do(fn func(b *battle.Battle)) {
	select {
	case i.cmds <- func() { fn(i.battle) }:
	case <-i.done:
	}
}

// DoSync schedules fn and blocks until it has run. Request/response
// surfaces use this to hand the typed rejection back to the caller.
func (i *Instance) DoSync(fn func(b *battle.Battle) error) error {
	errc := make(chan error, 1)
	select {
	case i.cmds <- func() { errc <- fn(i.battle) }:
	case <-i.done:
		return &battle.Reject{Reason: battle.RejectBattleNotActive, Detail: "instance stopped"}
	}
	select {
	case err := <-errc:
		return err
	case <-i.done:
		return &battle.Reject{Reason: battle.RejectBattleNotActive, Detail: "instance stopped"}
	}
}

// Submit runs one action request on the actor goroutine.
func (i *Instance) Submit(req battle.Request) (*battle.ActionOutcome, error) {
	var out *battle.ActionOutcome
	err := i.DoSync(func(b *battle.Battle) error {
		var err error
		out, err = b.Submit(req)
		return err
	})
	return out, err
}

// onEnded persists the outcome and journal. Runs on the actor goroutine
// via event dispatch; persistence failures are logged, not fatal, the
// match result stands in memory regardless.
func (i *Instance) onEnded(ev event.BattleEnded) {
	if i.finished {
		return
	}
	i.finished = true

	if i.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.results.Save(ctx, persist.ResultRow{
		BattleID:  ev.BattleID,
		WinnerID:  ev.WinnerID,
		WinReason: ev.WinReason,
		Rounds:    ev.Rounds,
		EndedAt:   time.Now().UTC(),
	}, i.battle.Results()); err != nil {
		i.log.Error("persist battle result", zap.String("battle_id", ev.BattleID), zap.Error(err))
	}
	if i.eventLog != nil {
		if err := i.eventLog.AppendBatch(ctx, ev.BattleID, i.journal); err != nil {
			i.log.Error("persist battle journal", zap.String("battle_id", ev.BattleID), zap.Error(err))
		}
	}
	i.journal = nil
}

// stop shuts the actor down. Pending commands are executed first.
func (i *Instance) stop() {
	close(i.quit)
	<-i.done
}
