package persist

import (
	"context"
	"fmt"

	"github.com/wartide/arena/internal/core/event"
)

// EventLogRepo appends the per-battle action journal. Entries are
// buffered by the host during the match and flushed in one transaction
// when the battle ends, so a replay of the journal reproduces the match.
type EventLogRepo struct {
	db *DB
}

func NewEventLogRepo(db *DB) *EventLogRepo {
	return &EventLogRepo{db: db}
}

// AppendBatch writes a batch of action events atomically. seq restarts
// at 0 for every battle; (battle_id, seq) is the journal key.
func (r *EventLogRepo) AppendBatch(ctx context.Context, battleID string, events []event.ActionApplied) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("eventlog begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, e := range events {
		if _, err := tx.Exec(ctx,
			`INSERT INTO battle_events
			   (battle_id, seq, actor_id, action, target_id, code,
			    from_x, from_y, to_x, to_y, damage, healing, missed, reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			battleID, i, e.ActorID, e.Action, e.TargetID, e.Code,
			e.FromX, e.FromY, e.ToX, e.ToY, e.Damage, e.Healing, e.Missed, e.Reason,
		); err != nil {
			return fmt.Errorf("eventlog insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Load returns a battle's journal in order.
func (r *EventLogRepo) Load(ctx context.Context, battleID string) ([]event.ActionApplied, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT actor_id, action, target_id, code,
		        from_x, from_y, to_x, to_y, damage, healing, missed, reason
		 FROM battle_events WHERE battle_id = $1 ORDER BY seq`, battleID)
	if err != nil {
		return nil, fmt.Errorf("eventlog load: %w", err)
	}
	defer rows.Close()

	var out []event.ActionApplied
	for rows.Next() {
		e := event.ActionApplied{BattleID: battleID}
		if err := rows.Scan(
			&e.ActorID, &e.Action, &e.TargetID, &e.Code,
			&e.FromX, &e.FromY, &e.ToX, &e.ToY, &e.Damage, &e.Healing, &e.Missed, &e.Reason,
		); err != nil {
			return nil, fmt.Errorf("eventlog scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
