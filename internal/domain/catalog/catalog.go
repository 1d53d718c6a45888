// Package catalog holds the read-only product catalog and floor layout types.
package catalog

import "context"

// Product is a catalog item available for ordering.
type Product struct {
	ProductNumber     string `json:"product_number"`
	Name              string `json:"product_name"`
	CategoryNumber    string `json:"category_number"`
	OptionGroupNumber string `json:"option_group_number"`
}

// Category groups products on the ordering UI.
type Category struct {
	ID             int64  `json:"id"`
	Name           string `json:"category_name"`
	CategoryNumber string `json:"category_number"`
}

// Option is a selectable product variant.
type Option struct {
	ID          int64  `json:"id"`
	GroupNumber string `json:"option_group_number"`
	Number      string `json:"option_number"`
	Details     string `json:"option_details"`
}

// Table is a physical seating unit with its floor map placement.
type Table struct {
	ID          int64   `json:"id"`
	Location    string  `json:"location"`
	TableNumber string  `json:"table_number"`
	TANumber    string  `json:"ta_number"`
	Width       float64 `json:"width_percentage"`
	Height      float64 `json:"height_percentage"`
	X           float64 `json:"x_position_percentage"`
	Y           float64 `json:"y_position_percentage"`
}

// Repository defines read operations for the catalog. Listings include only
// active products and categories.
type Repository interface {
	ProductsByCategory(ctx context.Context, categoryNumber string) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	OptionsByGroup(ctx context.Context, groupNumber string) ([]Option, error)
	OptionsByIDs(ctx context.Context, ids []int64) ([]Option, error)
	Tables(ctx context.Context) ([]Table, error)
}
