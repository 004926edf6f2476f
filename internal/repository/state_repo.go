package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"water_heater/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	heaterStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO heater_state (id, gateway, mode, temp_c, target_c, is_on, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			gateway=excluded.gateway,
			mode=excluded.mode,
			temp_c=excluded.temp_c,
			target_c=excluded.target_c,
			is_on=excluded.is_on,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, gateway, mode, temp_c, target_c, is_on, updated_at
		FROM heater_state WHERE id=?
	`
)

// targetToNull maps an absent target to SQL NULL.
func targetToNull(target *float64) sql.NullFloat64 {
	if target == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *target, Valid: true}
}

// Save updates or inserts the heater_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.HeaterState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		heaterStateRowID,
		state.GatewayID,
		state.Mode.String(),
		state.CurrentTempC,
		targetToNull(state.TargetTempC),
		state.IsOn,
		tsUTC,
	)
	if err != nil {
		return fmt.Errorf("save heater state: %w", err)
	}
	return nil
}

// Load fetches the single heater_state row (id=1).
// A missing row yields the zero state and no error.
func (r *StateSQLite) Load(ctx context.Context) (models.HeaterState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, heaterStateRowID)

	var (
		s       models.HeaterState
		modeStr string
		target  sql.NullFloat64
	)
	if err := row.Scan(
		&s.ID,
		&s.GatewayID,
		&modeStr,
		&s.CurrentTempC,
		&target,
		&s.IsOn,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HeaterState{}, nil // no state yet
		}
		return models.HeaterState{}, err
	}

	mode, err := models.ParseMode(modeStr)
	if err != nil {
		return models.HeaterState{}, err
	}
	s.Mode = mode
	if target.Valid {
		v := target.Float64
		s.TargetTempC = &v
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
