package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/wartide/arena/internal/battle"
)

// ResultRow is one finished match.
type ResultRow struct {
	BattleID  string
	WinnerID  string
	WinReason string
	Rounds    int
	EndedAt   time.Time
}

// ResultRepo records match outcomes and per-player results. Both writes
// go through one transaction so the participants table never disagrees
// with the results table.
type ResultRepo struct {
	db *DB
}

func NewResultRepo(db *DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save writes the match row and its participants atomically.
func (r *ResultRepo) Save(ctx context.Context, res ResultRow, parts []battle.ParticipantResult) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("result begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO battle_results (battle_id, winner_id, win_reason, rounds, ended_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		res.BattleID, res.WinnerID, res.WinReason, res.Rounds, res.EndedAt,
	); err != nil {
		return fmt.Errorf("result insert: %w", err)
	}

	for _, p := range parts {
		if _, err := tx.Exec(ctx,
			`INSERT INTO battle_participants (battle_id, player_id, winner, surrendered, units_alive)
			 VALUES ($1, $2, $3, $4, $5)`,
			res.BattleID, p.PlayerID, p.Winner, p.Surrendered, p.UnitsAlive,
		); err != nil {
			return fmt.Errorf("participant insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LoadRecent returns the latest n results, newest first.
func (r *ResultRepo) LoadRecent(ctx context.Context, n int) ([]ResultRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT battle_id, winner_id, win_reason, rounds, ended_at
		 FROM battle_results ORDER BY ended_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var res ResultRow
		if err := rows.Scan(&res.BattleID, &res.WinnerID, &res.WinReason, &res.Rounds, &res.EndedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
