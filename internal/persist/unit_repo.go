package persist

import (
	"context"
	"fmt"

	"github.com/wartide/arena/internal/battle"
	"github.com/wartide/arena/internal/data"
)

// UnitRow is a persisted army unit. Rows become battle seeds; the
// simulation never writes back to this table mid-match.
type UnitRow struct {
	ID          string
	OwnerID     string
	Name        string
	Category    string
	ClassCode   string
	Combat      int
	Speed       int
	Focus       int
	Resistance  int
	Will        int
	Vitality    int
	MaxHP       int
	PhysProt    int
	MagProt     int
	AttackRange int
	VisionRange int
	Features    []string
	Spells      []string
}

// UnitRepo handles CRUD operations for the army_units table.
type UnitRepo struct {
	db *DB
}

func NewUnitRepo(db *DB) *UnitRepo {
	return &UnitRepo{db: db}
}

const unitColumns = `id, owner_id, name, category, class_code,
	 combat, speed, focus, resistance, will, vitality,
	 max_hp, phys_prot, mag_prot, attack_range, vision_range,
	 features, spells`

// LoadByOwner loads every unit in a player's army.
func (r *UnitRepo) LoadByOwner(ctx context.Context, ownerID string) ([]UnitRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+unitColumns+` FROM army_units WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	defer rows.Close()

	var out []UnitRow
	for rows.Next() {
		var u UnitRow
		if err := rows.Scan(
			&u.ID, &u.OwnerID, &u.Name, &u.Category, &u.ClassCode,
			&u.Combat, &u.Speed, &u.Focus, &u.Resistance, &u.Will, &u.Vitality,
			&u.MaxHP, &u.PhysProt, &u.MagProt, &u.AttackRange, &u.VisionRange,
			&u.Features, &u.Spells,
		); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Save upserts a unit record.
func (r *UnitRepo) Save(ctx context.Context, u *UnitRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO army_units (`+unitColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 ON CONFLICT (id) DO UPDATE SET
		   name         = EXCLUDED.name,
		   category     = EXCLUDED.category,
		   class_code   = EXCLUDED.class_code,
		   combat       = EXCLUDED.combat,
		   speed        = EXCLUDED.speed,
		   focus        = EXCLUDED.focus,
		   resistance   = EXCLUDED.resistance,
		   will         = EXCLUDED.will,
		   vitality     = EXCLUDED.vitality,
		   max_hp       = EXCLUDED.max_hp,
		   phys_prot    = EXCLUDED.phys_prot,
		   mag_prot     = EXCLUDED.mag_prot,
		   attack_range = EXCLUDED.attack_range,
		   vision_range = EXCLUDED.vision_range,
		   features     = EXCLUDED.features,
		   spells       = EXCLUDED.spells`,
		u.ID, u.OwnerID, u.Name, u.Category, u.ClassCode,
		u.Combat, u.Speed, u.Focus, u.Resistance, u.Will, u.Vitality,
		u.MaxHP, u.PhysProt, u.MagProt, u.AttackRange, u.VisionRange,
		u.Features, u.Spells,
	)
	return err
}

// Delete removes a unit record.
func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM army_units WHERE id = $1`, id)
	return err
}

// Seed converts a row into battle-setup form.
func (u UnitRow) Seed(x, y int, aiControlled bool) battle.UnitSeed {
	return battle.UnitSeed{
		ID:        u.ID,
		OwnerID:   u.OwnerID,
		Name:      u.Name,
		Category:  u.Category,
		ClassCode: u.ClassCode,
		Attrs: data.Attributes{
			Combat: u.Combat, Speed: u.Speed, Focus: u.Focus,
			Resistance: u.Resistance, Will: u.Will, Vitality: u.Vitality,
		},
		MaxHP:        u.MaxHP,
		PhysProt:     u.PhysProt,
		MagProt:      u.MagProt,
		X:            x,
		Y:            y,
		AttackRange:  u.AttackRange,
		VisionRange:  u.VisionRange,
		Features:     u.Features,
		Spells:       u.Spells,
		AIControlled: aiControlled,
	}
}
