package handler

import (
	"net/http"
	"strconv"
	"strings"

	"tableflow/internal/domain/catalog"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ProductsByCategory(r.Context(), r.URL.Query().Get("category_number"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) listOptionsByGroup(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("option_group_number")
	if group == "" {
		writeError(w, http.StatusBadRequest, "option group number is required")
		return
	}

	options, err := h.catalog.OptionsByGroup(r.Context(), group)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if options == nil {
		options = []catalog.Option{}
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) listOptionsByIDs(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid option id: "+part)
			return
		}
		ids = append(ids, id)
	}

	options, err := h.catalog.OptionsByIDs(r.Context(), ids)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if options == nil {
		options = []catalog.Option{}
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.catalog.Tables(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tables == nil {
		tables = []catalog.Table{}
	}
	writeJSON(w, http.StatusOK, tables)
}
