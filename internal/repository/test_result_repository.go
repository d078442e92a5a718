package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// TestResultRepo provides persistence for quality test results.  A
// test can hold at most one result; the test_id column carries a
// unique key so a duplicate insert fails with ErrConflict.
type TestResultRepo struct {
	db *sql.DB
}

// NewTestResultRepo constructs a TestResultRepo with the given DB handle.
func NewTestResultRepo(db *sql.DB) *TestResultRepo { return &TestResultRepo{db: db} }

const testResultColumns = `id, test_id, safety_passed, flavor_profile, texture_notes, aroma_notes, overall_score, detailed_notes, verified_by, created_at`

// CreateTx inserts a result within the scope of an existing
// transaction.  The caller marks the test COMPLETED in the same
// transaction and commits or rolls back both together.
func (r *TestResultRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.TestResult) (uint64, error) {
	const q = `INSERT INTO test_results (test_id, safety_passed, flavor_profile, texture_notes, aroma_notes, overall_score, detailed_notes, verified_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	out, err := tx.ExecContext(ctx, q, res.TestID, res.SafetyPassed, res.FlavorProfile,
		res.TextureNotes, res.AromaNotes, res.OverallScore, res.DetailedNotes, res.VerifiedBy)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}
	res.ID = uint64(id)
	return res.ID, nil
}

// GetByID returns a result by its own id or ledger.ErrNotFound.
func (r *TestResultRepo) GetByID(ctx context.Context, id uint64) (*model.TestResult, error) {
	const q = `SELECT ` + testResultColumns + ` FROM test_results WHERE id = ?`
	return r.getOne(ctx, q, id)
}

// GetByTestID returns the result recorded for a quality test.
func (r *TestResultRepo) GetByTestID(ctx context.Context, testID uint64) (*model.TestResult, error) {
	const q = `SELECT ` + testResultColumns + ` FROM test_results WHERE test_id = ?`
	return r.getOne(ctx, q, testID)
}

func (r *TestResultRepo) getOne(ctx context.Context, q string, arg uint64) (*model.TestResult, error) {
	var res model.TestResult
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&res.ID, &res.TestID, &res.SafetyPassed,
		&res.FlavorProfile, &res.TextureNotes, &res.AromaNotes, &res.OverallScore,
		&res.DetailedNotes, &res.VerifiedBy, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}
