package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// ProducerRepo provides persistence for producer records.  Producers
// are a simple keyed store: creation-time validation only, no
// cross-entity invariants beyond id uniqueness.
type ProducerRepo struct {
	db *sql.DB
}

// NewProducerRepo constructs a ProducerRepo with the given DB handle.
func NewProducerRepo(db *sql.DB) *ProducerRepo { return &ProducerRepo{db: db} }

const producerColumns = `id, name, location, region, established_year, contact_info, registered_by, active, created_at, updated_at`

func scanProducer(scan func(dest ...any) error, p *model.Producer) error {
	return scan(&p.ID, &p.Name, &p.Location, &p.Region, &p.EstablishedYear,
		&p.ContactInfo, &p.RegisteredBy, &p.Active, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a new producer and reads the row back.
func (r *ProducerRepo) Create(ctx context.Context, p *model.Producer) (uint64, error) {
	const q = `INSERT INTO producers (name, location, region, established_year, contact_info, registered_by, active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Location, p.Region, p.EstablishedYear,
		p.ContactInfo, p.RegisteredBy, p.Active)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + producerColumns + ` FROM producers WHERE id = ?`
	if err := scanProducer(r.db.QueryRowContext(ctx, sel, p.ID).Scan, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// GetProducer returns a producer by id or ledger.ErrNotFound.  The
// method name satisfies ledger.RegistryStore.
func (r *ProducerRepo) GetProducer(ctx context.Context, id uint64) (*model.Producer, error) {
	const q = `SELECT ` + producerColumns + ` FROM producers WHERE id = ?`
	var p model.Producer
	if err := scanProducer(r.db.QueryRowContext(ctx, q, id).Scan, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update rewrites the mutable descriptive fields.  Callers verify the
// registering authority before invoking.
func (r *ProducerRepo) Update(ctx context.Context, p *model.Producer) error {
	const q = `UPDATE producers
	           SET name = ?, location = ?, region = ?, established_year = ?, contact_info = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Location, p.Region, p.EstablishedYear, p.ContactInfo, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM producers WHERE id = ?)`, p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}

// SetActive toggles the producer's active flag.
func (r *ProducerRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE producers SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM producers WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}
