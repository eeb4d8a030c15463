package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wartide/arena/internal/ai"
	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/config"
	"github.com/wartide/arena/internal/core/event"
	"github.com/wartide/arena/internal/data"
	"github.com/wartide/arena/internal/persist"
)

// Host owns the battle registry. Each battle runs on its own actor
// goroutine; the host only does bookkeeping and wiring.
type Host struct {
	cfg    config.Config
	tables Tables
	engine *ai.Engine
	log    *zap.Logger

	results  *persist.ResultRepo
	eventLog *persist.EventLogRepo
	rosters  RosterSource

	mu        sync.RWMutex
	instances map[string]*Instance
}

// RosterSource loads a player's persisted army for battle setup.
// *persist.UnitRepo is the production implementation.
type RosterSource interface {
	LoadByOwner(ctx context.Context, ownerID string) ([]persist.UnitRow, error)
}

// Tables bundles the loaded content tables.
type Tables struct {
	Abilities *data.AbilityTable
	Classes   *data.HeroClassTable
	Summons   *data.SummonTable
	Profiles  *data.AIProfileTable
}

func New(cfg config.Config, tables Tables, results *persist.ResultRepo, eventLog *persist.EventLogRepo, rosters RosterSource, log *zap.Logger) *Host {
	return &Host{
		cfg:       cfg,
		tables:    tables,
		engine:    ai.NewEngine(tables.Abilities, tables.Profiles, log),
		log:       log,
		results:   results,
		eventLog:  eventLog,
		rosters:   rosters,
		instances: make(map[string]*Instance),
	}
}

// Create builds a new battle instance and starts its actor goroutine.
// seed fixes the battle's RNG; pass 0 for a random match.
func (h *Host) Create(seed int64) *Instance {
	id := uuid.NewString()
	if seed == 0 {
		seed = int64(uuid.New().ID())
	}

	bus := event.NewBus()
	b := battle.New(id, battle.Deps{
		Battle:    h.cfg.Battle,
		Session:   h.cfg.Session,
		Abilities: h.tables.Abilities,
		Summons:   h.tables.Summons,
		Classes:   h.tables.Classes,
		Bus:       bus,
		Log:       h.log.With(zap.String("battle_id", id)),
		Seed:      seed,
	})
	b.SetDecideFunc(h.decide)

	inst := newInstance(id, b, bus, h.cfg.Battle.TickRate, h.results, h.eventLog,
		h.log.With(zap.String("battle_id", id)))

	h.mu.Lock()
	h.instances[id] = inst
	h.mu.Unlock()

	go inst.run()
	h.log.Info("battle created", zap.String("battle_id", id), zap.Int64("seed", seed))
	return inst
}

// CreateFromRosters builds a battle seeded with both players' persisted
// armies. The first player deploys on the top row, the second on the
// bottom row, in roster order. Joining and starting stay with the
// caller.
func (h *Host) CreateFromRosters(ctx context.Context, seed int64, playerA, playerB string) (*Instance, error) {
	if h.rosters == nil {
		return nil, fmt.Errorf("no roster source configured")
	}
	var seeds []battle.UnitSeed
	for i, owner := range []string{playerA, playerB} {
		rows, err := h.rosters.LoadByOwner(ctx, owner)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("empty army for %s", owner)
		}
		y := 0
		if i == 1 {
			y = h.cfg.Battle.GridHeight - 1
		}
		for x, row := range rows {
			seeds = append(seeds, row.Seed(x, y, false))
		}
	}

	inst := h.Create(seed)
	if err := inst.DoSync(func(b *battle.Battle) error {
		return b.AddUnits(seeds...)
	}); err != nil {
		h.Remove(inst.ID)
		return nil, err
	}
	return inst, nil
}

// Get returns an instance by battle ID, nil when unknown.
func (h *Host) Get(id string) *Instance {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.instances[id]
}

// Remove stops an instance and drops it from the registry.
func (h *Host) Remove(id string) {
	h.mu.Lock()
	inst := h.instances[id]
	delete(h.instances, id)
	h.mu.Unlock()
	if inst != nil {
		inst.stop()
	}
}

// Shutdown stops every instance.
func (h *Host) Shutdown() {
	h.mu.Lock()
	instances := h.instances
	h.instances = make(map[string]*Instance)
	h.mu.Unlock()
	for _, inst := range instances {
		inst.stop()
	}
}

// decide is the guarded AI pipeline, invoked by the battle core from its
// actor goroutine for every AI-controlled turn. The engine works on a
// snapshot so a timed-out evaluation, abandoned mid-flight, can never
// touch live state. The decision is then re-validated against the live
// state before it is applied.
func (h *Host) decide(b *battle.Battle, unitID string) battle.Request {
	snap := b.State().Snapshot()
	d := ai.RunGuarded(context.Background(), h.log, h.cfg.AI.DecisionTimeout, "decide", unitID,
		func() ai.Decision {
			return h.engine.Decide(snap, unitID)
		})
	d = ai.Validate(d, b.State(), unitID)
	return d.Request(unitID)
}
