package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Status is the lifecycle state of an order line item.
type Status string

const (
	// StatusPending marks an item that was submitted but not yet sent to the kitchen.
	StatusPending Status = "pending"
	// StatusOpen marks an item confirmed and active in the kitchen.
	StatusOpen Status = "open"
	// StatusClosed marks a fulfilled and paid item.
	StatusClosed Status = "closed"
	// StatusDeleted marks a cancelled item, excluded from all listings.
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOpen, StatusClosed, StatusDeleted:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusDeleted
}

// Sentinel errors for order operations.
var (
	ErrNotFound        = errors.New("order not found")
	ErrTableRequired   = errors.New("table number is required")
	ErrProductRequired = errors.New("product number is required")
	ErrInvalidStatus   = errors.New("invalid order status")
	// ErrOrderFinal is returned when a discard targets an order already in a
	// terminal state.
	ErrOrderFinal = errors.New("order is in a terminal state")
)

// Order represents one ordered line item for one table. Only Status mutates
// after creation, and only through repository status updates.
type Order struct {
	ID             int64
	TableNumber    string
	ProductNumber  string
	CategoryNumber string
	OptionNumber   string
	OptionText     string
	Status         Status
	CreatedAt      time.Time
}

// View is an Order joined with catalog display fields, as returned by list
// and lookup queries. ProductName and OptionDetails are empty when the
// referenced catalog rows do not exist.
type View struct {
	ID            int64     `json:"id"`
	TableNumber   string    `json:"table_number"`
	ProductNumber string    `json:"product_number"`
	ProductName   string    `json:"product_name"`
	OptionNumber  string    `json:"option_number"`
	OptionDetails string    `json:"option_details"`
	OptionText    string    `json:"option_text"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"timestamp"`
}

// UpdateFilter selects the orders affected by a status update. Zero-valued
// fields are ignored; Current, when non-empty, restricts the update to orders
// currently in one of the given statuses.
type UpdateFilter struct {
	Table   string
	ID      int64
	Current []Status
}

// ListFilter selects orders for listing. Table is optional; Status is
// required.
type ListFilter struct {
	Table  string
	Status Status
}

// Repository defines persistence operations for orders.
type Repository interface {
	Insert(ctx context.Context, o *Order) (int64, error)
	UpdateStatus(ctx context.Context, f UpdateFilter, to Status) (int64, error)
	List(ctx context.Context, f ListFilter) ([]View, error)
	// GetByID returns the joined view for a single order. It returns
	// ErrNotFound when no such order exists.
	GetByID(ctx context.Context, id int64) (*View, error)
}
