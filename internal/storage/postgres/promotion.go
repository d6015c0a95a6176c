package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leandrosq/pizzaria-backend/internal/domain/promotion"
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository backed by PostgreSQL.
// Pizza slot definitions are stored in a JSONB column.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository returns a PromotionRepository that uses the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// GetByID returns a single promotion, or promotion.ErrNotFound.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*promotion.Promotion, error) {
	var (
		p         promotion.Promotion
		slotsJSON []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, price, highlighted, drink_ids, pizzas
		 FROM promotions WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Highlighted, &p.DrinkIDs, &slotsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get promotion %q", id)
	}
	if err := json.Unmarshal(slotsJSON, &p.Pizzas); err != nil {
		return nil, errors.Wrap(err, "decode pizza slots")
	}
	return &p, nil
}

// List returns all promotions, highlighted first.
func (r *PromotionRepository) List(ctx context.Context) ([]promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, price, highlighted, drink_ids, pizzas
		 FROM promotions ORDER BY highlighted DESC, name`)
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}
	defer rows.Close()

	var out []promotion.Promotion
	for rows.Next() {
		var (
			p         promotion.Promotion
			slotsJSON []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Highlighted, &p.DrinkIDs, &slotsJSON); err != nil {
			return nil, errors.Wrap(err, "scan promotion")
		}
		if err := json.Unmarshal(slotsJSON, &p.Pizzas); err != nil {
			return nil, errors.Wrap(err, "decode pizza slots")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a new promotion.
func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	slotsJSON, err := json.Marshal(p.Pizzas)
	if err != nil {
		return errors.Wrap(err, "encode pizza slots")
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO promotions (id, name, description, price, highlighted, drink_ids, pizzas)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.Price, p.Highlighted, p.DrinkIDs, slotsJSON)
	return errors.Wrapf(err, "create promotion %q", p.ID)
}

// Update replaces an existing promotion.
func (r *PromotionRepository) Update(ctx context.Context, p *promotion.Promotion) error {
	slotsJSON, err := json.Marshal(p.Pizzas)
	if err != nil {
		return errors.Wrap(err, "encode pizza slots")
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE promotions
		 SET name = $2, description = $3, price = $4, highlighted = $5, drink_ids = $6, pizzas = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Highlighted, p.DrinkIDs, slotsJSON)
	if err != nil {
		return errors.Wrapf(err, "update promotion %q", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return promotion.ErrNotFound
	}
	return nil
}

// Delete removes a promotion.
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete promotion %q", id)
	}
	if tag.RowsAffected() == 0 {
		return promotion.ErrNotFound
	}
	return nil
}
