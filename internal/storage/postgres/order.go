package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leandrosq/pizzaria-backend/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// promotion and drink selections are stored in JSONB columns with their
// computed prices, keeping placed orders immune to catalog changes.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order in a single insert. The sequential code and
// the timestamps are assigned by the database and written back into o.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	promosJSON, err := json.Marshal(o.Promotions)
	if err != nil {
		return errors.Wrap(err, "encode promotion selections")
	}
	drinksJSON, err := json.Marshal(o.Drinks)
	if err != nil {
		return errors.Wrap(err, "encode drink selections")
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO orders
		 (id, branch_id, customer_id, promotions, drinks, total, source, status, closed, reason, payment_type, payment_change)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING code, created_at, updated_at`,
		o.ID, o.BranchID, o.CustomerID, promosJSON, drinksJSON, o.Total,
		o.Source, o.Status, o.Closed, o.Reason, o.Payment.Type, o.Payment.Change).
		Scan(&o.Code, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	return nil
}

// Update applies a partial field patch. Only non-nil fields are written;
// updated_at always advances.
func (r *OrderRepository) Update(ctx context.Context, id string, u order.Update) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if u.Status != nil {
		add("status", *u.Status)
	}
	if u.Closed != nil {
		add("closed", *u.Closed)
	}
	if u.Reason != nil {
		add("reason", *u.Reason)
	}
	if u.CustomerID != nil {
		add("customer_id", *u.CustomerID)
	}
	if u.Payment != nil {
		add("payment_type", u.Payment.Type)
		add("payment_change", u.Payment.Change)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return errors.Wrapf(err, "update order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// GetByID returns a single order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, selectOrder+` WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrder+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return collectOrders(rows)
}

// ListOpen returns the dashboard set: non-closed orders of the branch in
// actionable statuses, oldest first for stable board rendering.
func (r *OrderRepository) ListOpen(ctx context.Context, branchID string) ([]order.Order, error) {
	statuses := make([]string, len(order.DashboardStatuses))
	for i, s := range order.DashboardStatuses {
		statuses[i] = string(s)
	}

	rows, err := r.pool.Query(ctx,
		selectOrder+` WHERE NOT closed AND branch_id = $1 AND status = ANY($2) ORDER BY created_at`,
		branchID, statuses)
	if err != nil {
		return nil, errors.Wrap(err, "list open orders")
	}
	return collectOrders(rows)
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

const selectOrder = `SELECT id, code, branch_id, customer_id, promotions, drinks, total,
	source, status, closed, reason, payment_type, payment_change, created_at, updated_at
	FROM orders`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o          order.Order
		promosJSON []byte
		drinksJSON []byte
	)
	err := row.Scan(&o.ID, &o.Code, &o.BranchID, &o.CustomerID, &promosJSON, &drinksJSON,
		&o.Total, &o.Source, &o.Status, &o.Closed, &o.Reason,
		&o.Payment.Type, &o.Payment.Change, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(promosJSON, &o.Promotions); err != nil {
		return nil, errors.Wrap(err, "decode promotion selections")
	}
	if err := json.Unmarshal(drinksJSON, &o.Drinks); err != nil {
		return nil, errors.Wrap(err, "decode drink selections")
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}
