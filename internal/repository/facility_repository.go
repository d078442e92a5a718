package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// FacilityRepo provides persistence for aging facilities.  It
// implements ledger.FacilityStore.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo constructs a FacilityRepo with the given DB handle.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *FacilityRepo) DB() *sql.DB { return r.db }

const facilityColumns = `id, owner_id, name, location, capacity_kg, temperature_range, humidity_range, active, created_at, updated_at`

func scanFacility(row *sql.Row, f *model.Facility) error {
	return row.Scan(&f.ID, &f.OwnerID, &f.Name, &f.Location, &f.CapacityKg,
		&f.TemperatureRange, &f.HumidityRange, &f.Active, &f.CreatedAt, &f.UpdatedAt)
}

// CreateFacility inserts a new facility and reads the row back so the
// caller sees the DB-assigned id and timestamps.
func (r *FacilityRepo) CreateFacility(ctx context.Context, f *model.Facility) (uint64, error) {
	const q = `INSERT INTO facilities (owner_id, name, location, capacity_kg, temperature_range, humidity_range, active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.OwnerID, f.Name, f.Location, f.CapacityKg,
		f.TemperatureRange, f.HumidityRange, f.Active)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	f.ID = uint64(id)
	const sel = `SELECT ` + facilityColumns + ` FROM facilities WHERE id = ?`
	if err := scanFacility(r.db.QueryRowContext(ctx, sel, f.ID), f); err != nil {
		return 0, err
	}
	return f.ID, nil
}

// GetFacility returns a facility by id.  Unknown ids yield
// ledger.ErrNotFound.
func (r *FacilityRepo) GetFacility(ctx context.Context, id uint64) (*model.Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities WHERE id = ?`
	var f model.Facility
	if err := scanFacility(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// SetFacilityActive toggles the active flag.
func (r *FacilityRepo) SetFacilityActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE facilities SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when the flag already holds the target
		// value, so re-check existence before reporting NotFound.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM facilities WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}
