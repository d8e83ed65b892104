package api

import (
	"encoding/json"
	"net/http"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /api/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid JSON body"})
		return
	}

	cat, err := h.categorySvc.Create(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryJSON(cat))
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categorySvc.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		data = append(data, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, data)
}

// GetCategory handles GET /api/categories/{id}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cat, err := h.categorySvc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryJSON(cat))
}
