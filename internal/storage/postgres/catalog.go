package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leandrosq/pizzaria-backend/internal/domain/catalog"
)

var _ catalog.Reader = (*CatalogRepository)(nil)

// CatalogRepository provides CRUD and batch reads for the priced catalog
// entities: sizes, flavors, complements, and drinks.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// FlavorsByIDs returns the flavors for every given ID, failing with
// catalog.NotFoundError when any is absent.
func (r *CatalogRepository) FlavorsByIDs(ctx context.Context, ids []string) ([]catalog.Flavor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, ingredients, price, type FROM pizza_flavors WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "query flavors")
	}
	defer rows.Close()

	byID := make(map[string]catalog.Flavor, len(ids))
	for rows.Next() {
		var f catalog.Flavor
		if err := rows.Scan(&f.ID, &f.Name, &f.Ingredients, &f.Price, &f.Type); err != nil {
			return nil, errors.Wrap(err, "scan flavor")
		}
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read flavors")
	}

	out := make([]catalog.Flavor, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "flavor", ID: id}
		}
		out = append(out, f)
	}
	return out, nil
}

// ComplementsByIDs returns the complements for every given ID, failing with
// catalog.NotFoundError when any is absent.
func (r *CatalogRepository) ComplementsByIDs(ctx context.Context, ids []string) ([]catalog.Complement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price FROM pizza_complements WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "query complements")
	}
	defer rows.Close()

	byID := make(map[string]catalog.Complement, len(ids))
	for rows.Next() {
		var c catalog.Complement
		if err := rows.Scan(&c.ID, &c.Name, &c.Price); err != nil {
			return nil, errors.Wrap(err, "scan complement")
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read complements")
	}

	out := make([]catalog.Complement, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, &catalog.NotFoundError{Kind: "complement", ID: id}
		}
		out = append(out, c)
	}
	return out, nil
}

// DrinkByID returns a single drink.
func (r *CatalogRepository) DrinkByID(ctx context.Context, id string) (*catalog.Drink, error) {
	var d catalog.Drink
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price FROM drinks WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &catalog.NotFoundError{Kind: "drink", ID: id}
		}
		return nil, errors.Wrapf(err, "get drink %q", id)
	}
	return &d, nil
}

// SizeByID returns a single pizza size.
func (r *CatalogRepository) SizeByID(ctx context.Context, id string) (*catalog.Size, error) {
	var s catalog.Size
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slices FROM pizza_sizes WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Slices)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &catalog.NotFoundError{Kind: "size", ID: id}
		}
		return nil, errors.Wrapf(err, "get size %q", id)
	}
	return &s, nil
}

// ListFlavors returns all flavors ordered by name.
func (r *CatalogRepository) ListFlavors(ctx context.Context) ([]catalog.Flavor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, ingredients, price, type FROM pizza_flavors ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list flavors")
	}
	defer rows.Close()

	var out []catalog.Flavor
	for rows.Next() {
		var f catalog.Flavor
		if err := rows.Scan(&f.ID, &f.Name, &f.Ingredients, &f.Price, &f.Type); err != nil {
			return nil, errors.Wrap(err, "scan flavor")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateFlavor inserts a new flavor.
func (r *CatalogRepository) CreateFlavor(ctx context.Context, f *catalog.Flavor) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pizza_flavors (id, name, ingredients, price, type) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Name, f.Ingredients, f.Price, f.Type)
	return errors.Wrap(err, "create flavor")
}

// UpdateFlavor updates an existing flavor.
func (r *CatalogRepository) UpdateFlavor(ctx context.Context, f *catalog.Flavor) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pizza_flavors SET name = $2, ingredients = $3, price = $4, type = $5 WHERE id = $1`,
		f.ID, f.Name, f.Ingredients, f.Price, f.Type)
	if err != nil {
		return errors.Wrap(err, "update flavor")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "flavor", ID: f.ID}
	}
	return nil
}

// DeleteFlavor removes a flavor.
func (r *CatalogRepository) DeleteFlavor(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pizza_flavors WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete flavor")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "flavor", ID: id}
	}
	return nil
}

// ListComplements returns all complements ordered by name.
func (r *CatalogRepository) ListComplements(ctx context.Context) ([]catalog.Complement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM pizza_complements ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list complements")
	}
	defer rows.Close()

	var out []catalog.Complement
	for rows.Next() {
		var c catalog.Complement
		if err := rows.Scan(&c.ID, &c.Name, &c.Price); err != nil {
			return nil, errors.Wrap(err, "scan complement")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateComplement inserts a new complement.
func (r *CatalogRepository) CreateComplement(ctx context.Context, c *catalog.Complement) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pizza_complements (id, name, price) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.Price)
	return errors.Wrap(err, "create complement")
}

// UpdateComplement updates an existing complement.
func (r *CatalogRepository) UpdateComplement(ctx context.Context, c *catalog.Complement) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pizza_complements SET name = $2, price = $3 WHERE id = $1`,
		c.ID, c.Name, c.Price)
	if err != nil {
		return errors.Wrap(err, "update complement")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "complement", ID: c.ID}
	}
	return nil
}

// DeleteComplement removes a complement.
func (r *CatalogRepository) DeleteComplement(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pizza_complements WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete complement")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "complement", ID: id}
	}
	return nil
}

// ListDrinks returns all drinks ordered by name.
func (r *CatalogRepository) ListDrinks(ctx context.Context) ([]catalog.Drink, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM drinks ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list drinks")
	}
	defer rows.Close()

	var out []catalog.Drink
	for rows.Next() {
		var d catalog.Drink
		if err := rows.Scan(&d.ID, &d.Name, &d.Price); err != nil {
			return nil, errors.Wrap(err, "scan drink")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateDrink inserts a new drink.
func (r *CatalogRepository) CreateDrink(ctx context.Context, d *catalog.Drink) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO drinks (id, name, price) VALUES ($1, $2, $3)`, d.ID, d.Name, d.Price)
	return errors.Wrap(err, "create drink")
}

// UpdateDrink updates an existing drink.
func (r *CatalogRepository) UpdateDrink(ctx context.Context, d *catalog.Drink) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drinks SET name = $2, price = $3 WHERE id = $1`, d.ID, d.Name, d.Price)
	if err != nil {
		return errors.Wrap(err, "update drink")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "drink", ID: d.ID}
	}
	return nil
}

// DeleteDrink removes a drink.
func (r *CatalogRepository) DeleteDrink(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete drink")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "drink", ID: id}
	}
	return nil
}

// ListSizes returns all sizes ordered by slice count.
func (r *CatalogRepository) ListSizes(ctx context.Context) ([]catalog.Size, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slices FROM pizza_sizes ORDER BY slices`)
	if err != nil {
		return nil, errors.Wrap(err, "list sizes")
	}
	defer rows.Close()

	var out []catalog.Size
	for rows.Next() {
		var s catalog.Size
		if err := rows.Scan(&s.ID, &s.Name, &s.Slices); err != nil {
			return nil, errors.Wrap(err, "scan size")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateSize inserts a new pizza size.
func (r *CatalogRepository) CreateSize(ctx context.Context, s *catalog.Size) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO pizza_sizes (id, name, slices) VALUES ($1, $2, $3)`, s.ID, s.Name, s.Slices)
	return errors.Wrap(err, "create size")
}

// UpdateSize updates an existing pizza size.
func (r *CatalogRepository) UpdateSize(ctx context.Context, s *catalog.Size) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pizza_sizes SET name = $2, slices = $3 WHERE id = $1`, s.ID, s.Name, s.Slices)
	if err != nil {
		return errors.Wrap(err, "update size")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "size", ID: s.ID}
	}
	return nil
}

// DeleteSize removes a pizza size.
func (r *CatalogRepository) DeleteSize(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pizza_sizes WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete size")
	}
	if tag.RowsAffected() == 0 {
		return &catalog.NotFoundError{Kind: "size", ID: id}
	}
	return nil
}
