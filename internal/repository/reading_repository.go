package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// ReadingRepo provides persistence for environmental readings.  It
// implements ledger.ReadingStore.  The table is append-only: no
// update or delete statements exist in this file on purpose.
type ReadingRepo struct {
	db *sql.DB
}

// NewReadingRepo constructs a ReadingRepo with the given DB handle.
func NewReadingRepo(db *sql.DB) *ReadingRepo { return &ReadingRepo{db: db} }

const readingColumns = `id, booking_id, temperature, humidity, notes, recorded_at, created_at`

// CreateReading appends a reading and reads the row back.
func (r *ReadingRepo) CreateReading(ctx context.Context, rd *model.EnvironmentalReading) (uint64, error) {
	const q = `INSERT INTO environmental_readings (booking_id, temperature, humidity, notes, recorded_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rd.BookingID, rd.Temperature, rd.Humidity, rd.Notes, rd.RecordedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rd.ID = uint64(id)
	const sel = `SELECT ` + readingColumns + ` FROM environmental_readings WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, rd.ID).Scan(&rd.ID, &rd.BookingID,
		&rd.Temperature, &rd.Humidity, &rd.Notes, &rd.RecordedAt, &rd.CreatedAt); err != nil {
		return 0, err
	}
	return rd.ID, nil
}

// GetReading returns a reading by id or ledger.ErrNotFound.
func (r *ReadingRepo) GetReading(ctx context.Context, id uint64) (*model.EnvironmentalReading, error) {
	const q = `SELECT ` + readingColumns + ` FROM environmental_readings WHERE id = ?`
	var rd model.EnvironmentalReading
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rd.ID, &rd.BookingID,
		&rd.Temperature, &rd.Humidity, &rd.Notes, &rd.RecordedAt, &rd.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &rd, nil
}

// ListReadingsByBooking returns a booking's readings oldest first.
func (r *ReadingRepo) ListReadingsByBooking(ctx context.Context, bookingID uint64) ([]model.EnvironmentalReading, error) {
	const q = `SELECT ` + readingColumns + ` FROM environmental_readings WHERE booking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EnvironmentalReading, 0)
	for rows.Next() {
		var rd model.EnvironmentalReading
		if err := rows.Scan(&rd.ID, &rd.BookingID, &rd.Temperature, &rd.Humidity,
			&rd.Notes, &rd.RecordedAt, &rd.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}
