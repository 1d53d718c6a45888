package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tableflow/internal/domain/print"
)

var _ print.BindingLookup = (*BindingRepository)(nil)

// BindingRepository resolves product-to-station routing facts from the
// device_bindings table.
type BindingRepository struct {
	pool *pgxpool.Pool
}

// NewBindingRepository returns a BindingRepository that uses the given pool.
func NewBindingRepository(pool *pgxpool.Pool) *BindingRepository {
	return &BindingRepository{pool: pool}
}

// Station returns the station bound to the product, or an empty string when
// the product has no binding.
func (r *BindingRepository) Station(ctx context.Context, productNumber string) (string, error) {
	var station string
	err := r.pool.QueryRow(ctx,
		"SELECT station FROM device_bindings WHERE product_number = $1",
		productNumber,
	).Scan(&station)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", errors.Wrapf(err, "lookup binding for product %s", productNumber)
	}
	return station, nil
}
