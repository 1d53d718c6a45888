// Package handler exposes the API surface over net/http.
package handler

import (
	"net/http"

	"tableflow/internal/domain/catalog"
	"tableflow/internal/domain/order"
	"tableflow/pkg/broadcast"
)

// Handler routes API requests to the order service, catalog, print
// dispatcher, and event hub.
type Handler struct {
	orders  *order.Service
	catalog catalog.Repository
	printer order.Dispatcher
	hub     *broadcast.Hub
}

// New constructs a Handler with the required dependencies.
func New(
	orders *order.Service,
	cat catalog.Repository,
	printer order.Dispatcher,
	hub *broadcast.Hub,
) *Handler {
	return &Handler{
		orders:  orders,
		catalog: cat,
		printer: printer,
		hub:     hub,
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("DELETE /api/orders/{id}", h.discardOrder)

	mux.HandleFunc("POST /api/tables/{table}/confirm", h.confirmTable)
	mux.HandleFunc("POST /api/tables/{table}/close", h.closeTable)
	mux.HandleFunc("POST /api/tables/{table}/discard", h.discardTable)

	mux.HandleFunc("POST /api/print", h.printOrder)

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("GET /api/product_options", h.listOptionsByGroup)
	mux.HandleFunc("GET /api/options", h.listOptionsByIDs)
	mux.HandleFunc("GET /api/tables", h.listTables)

	mux.HandleFunc("GET /api/events", h.streamEvents)
	mux.HandleFunc("POST /api/events/new_order", h.publishNewOrder)
}
