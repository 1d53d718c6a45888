package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflow/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ProductsByCategory returns the active products in a category.
func (r *CatalogRepository) ProductsByCategory(ctx context.Context, categoryNumber string) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_number, name, category_number, option_group_number
		FROM products
		WHERE category_number = $1 AND status = 'active'
		ORDER BY product_number`,
		categoryNumber,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return collect(rows, func(row pgx.Row) (catalog.Product, error) {
		var p catalog.Product
		err := row.Scan(&p.ProductNumber, &p.Name, &p.CategoryNumber, &p.OptionGroupNumber)
		return p, err
	})
}

// Categories returns all active categories.
func (r *CatalogRepository) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category_number
		FROM item_categories
		WHERE status = 'active'
		ORDER BY id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query categories")
	}
	return collect(rows, func(row pgx.Row) (catalog.Category, error) {
		var c catalog.Category
		err := row.Scan(&c.ID, &c.Name, &c.CategoryNumber)
		return c, err
	})
}

// OptionsByGroup returns the options belonging to an option group.
func (r *CatalogRepository) OptionsByGroup(ctx context.Context, groupNumber string) ([]catalog.Option, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, option_group_number, option_number, details
		FROM product_options
		WHERE option_group_number = $1
		ORDER BY id`,
		groupNumber,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query options")
	}
	return collect(rows, scanOption)
}

// OptionsByIDs returns the options with the given ids.
func (r *CatalogRepository) OptionsByIDs(ctx context.Context, ids []int64) ([]catalog.Option, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, option_group_number, option_number, details
		FROM product_options
		WHERE id = ANY($1)
		ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query options by id")
	}
	return collect(rows, scanOption)
}

// Tables returns every floor table with its layout placement.
func (r *CatalogRepository) Tables(ctx context.Context) ([]catalog.Table, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, location, table_number, ta_number,
		       width_percentage, height_percentage,
		       x_position_percentage, y_position_percentage
		FROM tables
		ORDER BY id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query tables")
	}
	return collect(rows, func(row pgx.Row) (catalog.Table, error) {
		var t catalog.Table
		err := row.Scan(&t.ID, &t.Location, &t.TableNumber, &t.TANumber,
			&t.Width, &t.Height, &t.X, &t.Y)
		return t, err
	})
}

func scanOption(row pgx.Row) (catalog.Option, error) {
	var o catalog.Option
	err := row.Scan(&o.ID, &o.GroupNumber, &o.Number, &o.Details)
	return o, err
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}
	return out, nil
}
