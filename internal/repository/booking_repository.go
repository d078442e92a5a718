package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// BookingRepo provides persistence for slot bookings.  It implements
// ledger.BookingStore.  The repo performs no conflict checking of its
// own; the engine serializes booking creation per slot and this layer
// only stores what the engine decided.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, slot_id, facility_id, producer_id, cheese_variety_id, batch_identifier, start_time, end_time, status, notes, created_at, updated_at`

func scanBooking(scan func(dest ...any) error, b *model.Booking) error {
	return scan(&b.ID, &b.SlotID, &b.FacilityID, &b.ProducerID, &b.CheeseVarietyID,
		&b.BatchIdentifier, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
}

// CreateBooking inserts a new booking and reads the row back.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) (uint64, error) {
	const q = `INSERT INTO bookings (slot_id, facility_id, producer_id, cheese_variety_id, batch_identifier, start_time, end_time, status, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.SlotID, b.FacilityID, b.ProducerID, b.CheeseVarietyID,
		b.BatchIdentifier, b.StartTime, b.EndTime, b.Status, b.Notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(r.db.QueryRowContext(ctx, sel, b.ID).Scan, b); err != nil {
		return 0, err
	}
	return b.ID, nil
}

// GetBooking returns a booking by id or ledger.ErrNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) listBookings(ctx context.Context, q string, arg uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows.Scan, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListActiveBySlot returns the bookings that currently claim windows
// on the slot (status BOOKED or IN_PROGRESS), ordered by start time.
func (r *BookingRepo) ListActiveBySlot(ctx context.Context, slotID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE slot_id = ? AND status IN ('BOOKED', 'IN_PROGRESS')
	           ORDER BY start_time`
	return r.listBookings(ctx, q, slotID)
}

// ListBySlot returns every booking ever made on the slot.
func (r *BookingRepo) ListBySlot(ctx context.Context, slotID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE slot_id = ? ORDER BY start_time`
	return r.listBookings(ctx, q, slotID)
}

// ListByProducer returns all bookings for a producer, newest first.
func (r *BookingRepo) ListByProducer(ctx context.Context, producerID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE producer_id = ? ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q, producerID)
}

// UpdateBookingStatus rewrites the status column.  The engine has
// already validated the transition under the booking's lock.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}
