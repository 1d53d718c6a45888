package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"tableflow/internal/domain/print"
)

// EventNewOrder is published whenever an order is created or a table's
// pending orders are confirmed into open.
const EventNewOrder = "new_order"

// NewOrderEvent is the payload of an EventNewOrder broadcast.
type NewOrderEvent struct {
	TableNumber string `json:"table_number"`
}

// Dispatcher schedules print jobs for confirmed orders and deletion notices
// for discarded ones. Dispatch is best-effort: job failures surface only in
// logs, never to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, table string, items []print.Item) ([]print.Item, error)
	DispatchDeletion(productName string)
}

// Publisher broadcasts events to live clients.
type Publisher interface {
	Publish(name string, payload any)
}

// CreateRequest holds the input for creating an order. Status is not an
// input: every order starts pending.
type CreateRequest struct {
	TableNumber    string
	ProductNumber  string
	CategoryNumber string
	OptionNumber   string
	OptionText     string
}

// Service owns the order lifecycle: it validates and applies status
// transitions and triggers print dispatch and event broadcast on the
// transitions that require them.
type Service struct {
	orders   Repository
	dispatch Dispatcher
	events   Publisher
}

// NewService creates an order Service.
func NewService(orders Repository, dispatch Dispatcher, events Publisher) *Service {
	return &Service{
		orders:   orders,
		dispatch: dispatch,
		events:   events,
	}
}

// Create validates and persists a new pending order, then broadcasts a
// new_order event for the table.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if req.TableNumber == "" {
		return nil, ErrTableRequired
	}
	if req.ProductNumber == "" {
		return nil, ErrProductRequired
	}

	o := &Order{
		TableNumber:    req.TableNumber,
		ProductNumber:  req.ProductNumber,
		CategoryNumber: req.CategoryNumber,
		OptionNumber:   req.OptionNumber,
		OptionText:     req.OptionText,
		Status:         StatusPending,
	}

	id, err := s.orders.Insert(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "insert order")
	}
	o.ID = id

	s.events.Publish(EventNewOrder, NewOrderEvent{TableNumber: o.TableNumber})
	return o, nil
}

// List returns orders matching the filter. An empty status defaults to
// pending; an empty table matches all tables.
func (s *Service) List(ctx context.Context, table string, status Status) ([]View, error) {
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	views, err := s.orders.List(ctx, ListFilter{Table: table, Status: status})
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return views, nil
}

// Confirm moves all of the table's pending orders to open. When at least one
// order transitions it dispatches the table's open items to the printer
// stations and broadcasts a new_order event. A table with nothing pending is
// a no-op, not an error. It returns the table's open orders.
func (s *Service) Confirm(ctx context.Context, table string) ([]View, error) {
	if table == "" {
		return nil, ErrTableRequired
	}

	affected, err := s.orders.UpdateStatus(ctx, UpdateFilter{
		Table:   table,
		Current: []Status{StatusPending},
	}, StatusOpen)
	if err != nil {
		return nil, errors.Wrap(err, "confirm orders")
	}

	views, err := s.orders.List(ctx, ListFilter{Table: table, Status: StatusOpen})
	if err != nil {
		return nil, errors.Wrap(err, "list open orders")
	}

	if affected > 0 {
		items := make([]print.Item, len(views))
		for i, v := range views {
			items[i] = print.Item{
				ProductNumber: v.ProductNumber,
				ProductName:   v.ProductName,
				OptionDetails: v.OptionDetails,
				OptionText:    v.OptionText,
			}
		}
		// Print is best-effort: a routing failure must not undo the
		// already-committed transition.
		if _, err := s.dispatch.Dispatch(ctx, table, items); err != nil {
			zctx.From(ctx).Error("print dispatch failed",
				zap.Error(err),
				zap.String("table", table),
			)
		}

		s.events.Publish(EventNewOrder, NewOrderEvent{TableNumber: table})
	}

	return views, nil
}

// Close moves all of the table's open orders to closed and returns the number
// of orders affected.
func (s *Service) Close(ctx context.Context, table string) (int64, error) {
	if table == "" {
		return 0, ErrTableRequired
	}

	affected, err := s.orders.UpdateStatus(ctx, UpdateFilter{
		Table:   table,
		Current: []Status{StatusOpen},
	}, StatusClosed)
	if err != nil {
		return 0, errors.Wrap(err, "close orders")
	}
	return affected, nil
}

// Discard moves one order in a non-terminal state to deleted and prints a
// deletion notice on every station. It returns ErrNotFound when the id does
// not exist and ErrOrderFinal when the order is already closed or deleted.
func (s *Service) Discard(ctx context.Context, id int64) error {
	v, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "lookup order")
	}

	affected, err := s.orders.UpdateStatus(ctx, UpdateFilter{
		ID:      id,
		Current: []Status{StatusPending, StatusOpen},
	}, StatusDeleted)
	if err != nil {
		return errors.Wrap(err, "discard order")
	}
	if affected == 0 {
		return ErrOrderFinal
	}

	name := v.ProductName
	if name == "" {
		name = v.ProductNumber
	}
	s.dispatch.DispatchDeletion(name)
	return nil
}

// DiscardTable moves all of the table's non-terminal orders to deleted and
// returns the number of orders affected. Closed orders stay closed: terminal
// states never change.
func (s *Service) DiscardTable(ctx context.Context, table string) (int64, error) {
	if table == "" {
		return 0, ErrTableRequired
	}

	affected, err := s.orders.UpdateStatus(ctx, UpdateFilter{
		Table:   table,
		Current: []Status{StatusPending, StatusOpen},
	}, StatusDeleted)
	if err != nil {
		return 0, errors.Wrap(err, "discard table orders")
	}
	return affected, nil
}
