package handler

import (
	"encoding/json"
	"net/http"

	"tableflow/internal/domain/print"
)

type printRequest struct {
	TableNumber string      `json:"table_number"`
	Orders      []printItem `json:"orders"`
}

type printItem struct {
	ProductNumber string `json:"product_number"`
	ProductName   string `json:"product_name"`
	OptionDetails string `json:"option_details"`
	OptionText    string `json:"option_text"`
}

type printResponse struct {
	Message string       `json:"message"`
	Skipped []print.Item `json:"skipped,omitempty"`
}

// printOrder accepts a caller-assembled item list and dispatches it to the
// printer stations. Items without a product number are reported back in the
// response; print failures themselves never fail this request.
func (h *Handler) printOrder(w http.ResponseWriter, r *http.Request) {
	var req printRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TableNumber == "" {
		writeError(w, http.StatusBadRequest, "table number is required")
		return
	}

	items := make([]print.Item, len(req.Orders))
	for i, o := range req.Orders {
		name := o.ProductName
		if name == "" {
			name = "Unknown Product"
		}
		items[i] = print.Item{
			ProductNumber: o.ProductNumber,
			ProductName:   name,
			OptionDetails: o.OptionDetails,
			OptionText:    o.OptionText,
		}
	}

	skipped, err := h.printer.Dispatch(r.Context(), req.TableNumber, items)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, printResponse{
		Message: "Order printed successfully!",
		Skipped: skipped,
	})
}
