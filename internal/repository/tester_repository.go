package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tomabrook/cheese-ledger/internal/ledger"
	"github.com/tomabrook/cheese-ledger/internal/model"
)

// TesterRepo provides persistence for certified tester profiles.
type TesterRepo struct {
	db *sql.DB
}

// NewTesterRepo constructs a TesterRepo with the given DB handle.
func NewTesterRepo(db *sql.DB) *TesterRepo { return &TesterRepo{db: db} }

const testerColumns = `id, user_id, name, organization, years_experience, certified, active, registered_by, created_at, updated_at`

func scanTester(scan func(dest ...any) error, t *model.CertifiedTester) error {
	return scan(&t.ID, &t.UserID, &t.Name, &t.Organization, &t.YearsExperience,
		&t.Certified, &t.Active, &t.RegisteredBy, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new tester profile and reads the row back.
func (r *TesterRepo) Create(ctx context.Context, t *model.CertifiedTester) (uint64, error) {
	const q = `INSERT INTO certified_testers (user_id, name, organization, years_experience, certified, active, registered_by)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.UserID, t.Name, t.Organization,
		t.YearsExperience, t.Certified, t.Active, t.RegisteredBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + testerColumns + ` FROM certified_testers WHERE id = ?`
	if err := scanTester(r.db.QueryRowContext(ctx, sel, t.ID).Scan, t); err != nil {
		return 0, err
	}
	return t.ID, nil
}

// GetByID returns a tester profile by id or ledger.ErrNotFound.
func (r *TesterRepo) GetByID(ctx context.Context, id uint64) (*model.CertifiedTester, error) {
	const q = `SELECT ` + testerColumns + ` FROM certified_testers WHERE id = ?`
	var t model.CertifiedTester
	if err := scanTester(r.db.QueryRowContext(ctx, q, id).Scan, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByUserID returns the tester profile operated by a user account.
// Used to authorize result recording.
func (r *TesterRepo) GetByUserID(ctx context.Context, userID uint64) (*model.CertifiedTester, error) {
	const q = `SELECT ` + testerColumns + ` FROM certified_testers WHERE user_id = ?`
	var t model.CertifiedTester
	if err := scanTester(r.db.QueryRowContext(ctx, q, userID).Scan, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// SetCertified toggles the certification flag.
func (r *TesterRepo) SetCertified(ctx context.Context, id uint64, certified bool) error {
	return r.setFlag(ctx, `UPDATE certified_testers SET certified = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id, certified)
}

// SetActive toggles the active flag.
func (r *TesterRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.setFlag(ctx, `UPDATE certified_testers SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id, active)
}

func (r *TesterRepo) setFlag(ctx context.Context, q string, id uint64, val bool) error {
	res, err := r.db.ExecContext(ctx, q, val, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM certified_testers WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}
