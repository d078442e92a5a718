package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// VarietyRepo provides persistence for cheese variety records.
type VarietyRepo struct {
	db *sql.DB
}

// NewVarietyRepo constructs a VarietyRepo with the given DB handle.
func NewVarietyRepo(db *sql.DB) *VarietyRepo { return &VarietyRepo{db: db} }

const varietyColumns = `id, producer_id, name, milk_type, style, aging_time_days, description, created_at`

// Create inserts a new variety and reads the row back.
func (r *VarietyRepo) Create(ctx context.Context, v *model.CheeseVariety) (uint64, error) {
	const q = `INSERT INTO cheese_varieties (producer_id, name, milk_type, style, aging_time_days, description)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.ProducerID, v.Name, v.MilkType, v.Style, v.AgingTimeDays, v.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	v.ID = uint64(id)
	const sel = `SELECT ` + varietyColumns + ` FROM cheese_varieties WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.ID, &v.ProducerID, &v.Name,
		&v.MilkType, &v.Style, &v.AgingTimeDays, &v.Description, &v.CreatedAt); err != nil {
		return 0, err
	}
	return v.ID, nil
}

// GetCheeseVariety returns a variety by id or ledger.ErrNotFound.
// The method name satisfies ledger.RegistryStore.
func (r *VarietyRepo) GetCheeseVariety(ctx context.Context, id uint64) (*model.CheeseVariety, error) {
	const q = `SELECT ` + varietyColumns + ` FROM cheese_varieties WHERE id = ?`
	var v model.CheeseVariety
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.ProducerID, &v.Name,
		&v.MilkType, &v.Style, &v.AgingTimeDays, &v.Description, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListByProducer returns all varieties registered for a producer.
func (r *VarietyRepo) ListByProducer(ctx context.Context, producerID uint64) ([]model.CheeseVariety, error) {
	const q = `SELECT ` + varietyColumns + ` FROM cheese_varieties WHERE producer_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, producerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CheeseVariety, 0)
	for rows.Next() {
		var v model.CheeseVariety
		if err := rows.Scan(&v.ID, &v.ProducerID, &v.Name, &v.MilkType, &v.Style,
			&v.AgingTimeDays, &v.Description, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
