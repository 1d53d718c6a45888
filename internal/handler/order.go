package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tableflow/internal/domain/order"
)

type createOrderRequest struct {
	TableNumber    string `json:"table_number"`
	ProductNumber  string `json:"product_number"`
	CategoryNumber string `json:"category_number"`
	OptionNumber   string `json:"option_number"`
	OptionText     string `json:"option_text"`
}

type createOrderResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type affectedResponse struct {
	Affected int64 `json:"affected"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		TableNumber:    req.TableNumber,
		ProductNumber:  req.ProductNumber,
		CategoryNumber: req.CategoryNumber,
		OptionNumber:   req.OptionNumber,
		OptionText:     req.OptionText,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		ID:      o.ID,
		Message: "Order added successfully!",
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table_number")
	status := order.Status(r.URL.Query().Get("status"))

	views, err := h.orders.List(r.Context(), table, status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if views == nil {
		views = []order.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) confirmTable(w http.ResponseWriter, r *http.Request) {
	views, err := h.orders.Confirm(r.Context(), r.PathValue("table"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if views == nil {
		views = []order.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) closeTable(w http.ResponseWriter, r *http.Request) {
	affected, err := h.orders.Close(r.Context(), r.PathValue("table"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *Handler) discardTable(w http.ResponseWriter, r *http.Request) {
	affected, err := h.orders.DiscardTable(r.Context(), r.PathValue("table"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, affectedResponse{Affected: affected})
}

func (h *Handler) discardOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.Discard(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order removed successfully!"})
}
