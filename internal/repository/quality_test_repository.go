package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// QualityTestRepo provides persistence for quality test requests.
type QualityTestRepo struct {
	db *sql.DB
}

// NewQualityTestRepo constructs a QualityTestRepo with the given DB handle.
func NewQualityTestRepo(db *sql.DB) *QualityTestRepo { return &QualityTestRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning the test and result tables.
func (r *QualityTestRepo) DB() *sql.DB { return r.db }

const qualityTestColumns = `id, producer_id, cheese_variety_id, batch_identifier, test_type, status, requested_by, created_at, updated_at`

func scanQualityTest(scan func(dest ...any) error, t *model.QualityTest) error {
	return scan(&t.ID, &t.ProducerID, &t.CheeseVarietyID, &t.BatchIdentifier,
		&t.TestType, &t.Status, &t.RequestedBy, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new quality test with status PENDING and reads the
// row back.
func (r *QualityTestRepo) Create(ctx context.Context, t *model.QualityTest) (uint64, error) {
	const q = `INSERT INTO quality_tests (producer_id, cheese_variety_id, batch_identifier, test_type, status, requested_by)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.ProducerID, t.CheeseVarietyID, t.BatchIdentifier,
		t.TestType, model.TestPending, t.RequestedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + qualityTestColumns + ` FROM quality_tests WHERE id = ?`
	if err := scanQualityTest(r.db.QueryRowContext(ctx, sel, t.ID).Scan, t); err != nil {
		return 0, err
	}
	return t.ID, nil
}

// GetByID returns a quality test by id or ledger.ErrNotFound.
func (r *QualityTestRepo) GetByID(ctx context.Context, id uint64) (*model.QualityTest, error) {
	const q = `SELECT ` + qualityTestColumns + ` FROM quality_tests WHERE id = ?`
	var t model.QualityTest
	if err := scanQualityTest(r.db.QueryRowContext(ctx, q, id).Scan, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDTx is GetByID inside an existing transaction, used when
// recording results so the status read and write stay consistent.
func (r *QualityTestRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.QualityTest, error) {
	const q = `SELECT ` + qualityTestColumns + ` FROM quality_tests WHERE id = ? FOR UPDATE`
	var t model.QualityTest
	if err := scanQualityTest(tx.QueryRowContext(ctx, q, id).Scan, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// SetStatusTx rewrites the test status within a transaction.
func (r *QualityTestRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE quality_tests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}
