package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leandrosq/pizzaria-backend/internal/domain/branch"
)

var _ branch.Repository = (*BranchRepository)(nil)

// BranchRepository implements branch.Repository backed by PostgreSQL.
type BranchRepository struct {
	pool *pgxpool.Pool
}

// NewBranchRepository returns a BranchRepository that uses the given pool.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{pool: pool}
}

// GetByID returns a single branch, or branch.ErrNotFound.
func (r *BranchRepository) GetByID(ctx context.Context, id string) (*branch.Branch, error) {
	var b branch.Branch
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, phone FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Address, &b.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, branch.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get branch %q", id)
	}
	return &b, nil
}

// List returns all branches in creation order.
func (r *BranchRepository) List(ctx context.Context) ([]branch.Branch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, phone FROM branches ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list branches")
	}
	defer rows.Close()

	var out []branch.Branch
	for rows.Next() {
		var b branch.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone); err != nil {
			return nil, errors.Wrap(err, "scan branch")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create inserts a new branch.
func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO branches (id, name, address, phone) VALUES ($1, $2, $3, $4)`,
		b.ID, b.Name, b.Address, b.Phone)
	return errors.Wrapf(err, "create branch %q", b.ID)
}

// Update replaces an existing branch.
func (r *BranchRepository) Update(ctx context.Context, b *branch.Branch) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE branches SET name = $2, address = $3, phone = $4 WHERE id = $1`,
		b.ID, b.Name, b.Address, b.Phone)
	if err != nil {
		return errors.Wrapf(err, "update branch %q", b.ID)
	}
	if tag.RowsAffected() == 0 {
		return branch.ErrNotFound
	}
	return nil
}

// Delete removes a branch.
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete branch %q", id)
	}
	if tag.RowsAffected() == 0 {
		return branch.ErrNotFound
	}
	return nil
}
