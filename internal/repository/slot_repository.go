package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// SlotRepo provides persistence for aging slots.  It implements
// ledger.SlotStore.  Slot ids come from the table's AUTO_INCREMENT
// and are therefore globally unique.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

const slotColumns = `id, facility_id, name, capacity_kg, temperature, humidity, available, created_at, updated_at`

// CreateSlot inserts a new slot and reads the row back.
func (r *SlotRepo) CreateSlot(ctx context.Context, s *model.Slot) (uint64, error) {
	const q = `INSERT INTO slots (facility_id, name, capacity_kg, temperature, humidity, available)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.FacilityID, s.Name, s.CapacityKg, s.Temperature, s.Humidity, s.Available)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.ID, &s.FacilityID, &s.Name,
		&s.CapacityKg, &s.Temperature, &s.Humidity, &s.Available, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return 0, err
	}
	return s.ID, nil
}

// GetSlot returns a slot by its global id.
func (r *SlotRepo) GetSlot(ctx context.Context, id uint64) (*model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
	var s model.Slot
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.FacilityID, &s.Name,
		&s.CapacityKg, &s.Temperature, &s.Humidity, &s.Available, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListSlotsByFacility returns all slots under a facility ordered by id.
func (r *SlotRepo) ListSlotsByFacility(ctx context.Context, facilityID uint64) ([]model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots WHERE facility_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Slot, 0)
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.ID, &s.FacilityID, &s.Name, &s.CapacityKg,
			&s.Temperature, &s.Humidity, &s.Available, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SlotCapacityUsedKg sums the capacity of all slots under a facility.
// Called by the engine inside the facility's critical section.
func (r *SlotRepo) SlotCapacityUsedKg(ctx context.Context, facilityID uint64) (uint64, error) {
	const q = `SELECT COALESCE(SUM(capacity_kg), 0) FROM slots WHERE facility_id = ?`
	var used uint64
	if err := r.db.QueryRowContext(ctx, q, facilityID).Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

// SetSlotAvailable toggles the manual availability flag.
func (r *SlotRepo) SetSlotAvailable(ctx context.Context, id uint64, available bool) error {
	const q = `UPDATE slots SET available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM slots WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}
