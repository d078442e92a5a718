package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// MilkSourceRepo provides persistence for milk source records.
type MilkSourceRepo struct {
	db *sql.DB
}

// NewMilkSourceRepo constructs a MilkSourceRepo with the given DB handle.
func NewMilkSourceRepo(db *sql.DB) *MilkSourceRepo { return &MilkSourceRepo{db: db} }

const milkSourceColumns = `id, producer_id, name, animal_type, organic, pasture_raised, location, notes, created_at`

// Create inserts a new milk source and reads the row back.
func (r *MilkSourceRepo) Create(ctx context.Context, m *model.MilkSource) (uint64, error) {
	const q = `INSERT INTO milk_sources (producer_id, name, animal_type, organic, pasture_raised, location, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.ProducerID, m.Name, m.AnimalType, m.Organic,
		m.PastureRaised, m.Location, m.Notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = uint64(id)
	const sel = `SELECT ` + milkSourceColumns + ` FROM milk_sources WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.ID, &m.ProducerID, &m.Name,
		&m.AnimalType, &m.Organic, &m.PastureRaised, &m.Location, &m.Notes, &m.CreatedAt); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// GetByID returns a milk source by id or ledger.ErrNotFound.
func (r *MilkSourceRepo) GetByID(ctx context.Context, id uint64) (*model.MilkSource, error) {
	const q = `SELECT ` + milkSourceColumns + ` FROM milk_sources WHERE id = ?`
	var m model.MilkSource
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.ProducerID, &m.Name,
		&m.AnimalType, &m.Organic, &m.PastureRaised, &m.Location, &m.Notes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
