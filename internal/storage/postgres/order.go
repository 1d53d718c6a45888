package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflow/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// viewColumns is the joined projection shared by List and GetByID. The LEFT
// JOINs keep orders visible even when the catalog rows behind them are gone.
const viewColumns = `
SELECT o.id, o.table_number, o.product_number, COALESCE(p.name, ''),
       o.option_number, COALESCE(po.details, ''), o.option_text,
       o.status, o.created_at
FROM orders o
LEFT JOIN products p ON p.product_number = o.product_number
LEFT JOIN product_options po ON po.option_number = o.option_number AND o.option_number <> ''`

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Insert persists a new order and returns its store-assigned id. The creation
// timestamp is assigned by the database and written back to o.
func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) (int64, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (table_number, product_number, category_number, option_number, option_text, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		o.TableNumber, o.ProductNumber, o.CategoryNumber, o.OptionNumber, o.OptionText, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}
	return o.ID, nil
}

// UpdateStatus moves every order matching the filter to the given status and
// returns the number of rows affected.
func (r *OrderRepository) UpdateStatus(ctx context.Context, f order.UpdateFilter, to order.Status) (int64, error) {
	query := "UPDATE orders SET status = $1"
	args := []any{string(to)}
	var conds []string

	if f.Table != "" {
		args = append(args, f.Table)
		conds = append(conds, fmt.Sprintf("table_number = $%d", len(args)))
	}
	if f.ID != 0 {
		args = append(args, f.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if len(f.Current) > 0 {
		statuses := make([]string, len(f.Current))
		for i, s := range f.Current {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "update order status")
	}
	return tag.RowsAffected(), nil
}

// List returns order views matching the filter, joined with product name and
// option details, ordered by id.
func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]order.View, error) {
	query := viewColumns + "\nWHERE o.status = $1"
	args := []any{string(f.Status)}
	if f.Table != "" {
		query += " AND o.table_number = $2"
		args = append(args, f.Table)
	}
	query += "\nORDER BY o.id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var views []order.View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return views, nil
}

// GetByID returns the joined view for one order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.View, error) {
	row := r.pool.QueryRow(ctx, viewColumns+"\nWHERE o.id = $1", id)

	v, err := scanView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &v, nil
}

func scanView(row pgx.Row) (order.View, error) {
	var v order.View
	err := row.Scan(
		&v.ID, &v.TableNumber, &v.ProductNumber, &v.ProductName,
		&v.OptionNumber, &v.OptionDetails, &v.OptionText,
		&v.Status, &v.CreatedAt,
	)
	return v, err
}
