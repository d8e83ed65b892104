package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/forgecommerce/catalog/internal/services/media"
	"github.com/forgecommerce/catalog/internal/services/product"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling files to disk.
const multipartMemory = 8 << 20

// CreateProduct handles POST /api/products. The body is multipart form data
// with the product fields and one or more "image" files.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.mediaSvc.MaxSize()*maxImagesPerProduct+maxJSONBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	params, msg := parseCreateForm(r)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: msg})
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: product.ErrImageRequired.Error()})
		return
	}
	if len(files) > maxImagesPerProduct {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "too many images"})
		return
	}

	for _, fh := range files {
		asset, err := h.uploadImage(r.Context(), fh)
		if err != nil {
			h.mediaSvc.Cleanup(context.WithoutCancel(r.Context()), params.Images)
			h.writeError(w, r, err)
			return
		}
		params.Images = append(params.Images, asset)
	}

	p, err := h.productSvc.Create(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

func (h *CatalogHandler) uploadImage(ctx context.Context, fh *multipart.FileHeader) (media.Asset, error) {
	f, err := fh.Open()
	if err != nil {
		return media.Asset{}, err
	}
	defer f.Close()
	return h.mediaSvc.Upload(ctx, f, fh)
}

// parseCreateForm reads the product fields. It returns a client error message
// when a field cannot be parsed; semantic validation is left to the service.
func parseCreateForm(r *http.Request) (product.CreateProductParams, string) {
	params := product.CreateProductParams{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Status:      strings.TrimSpace(r.FormValue("status")),
	}

	rawPrice := strings.TrimSpace(r.FormValue("price"))
	if rawPrice == "" {
		return params, "price is required"
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return params, "price must be a number"
	}
	params.Price = price

	if raw := strings.TrimSpace(r.FormValue("discount")); raw != "" {
		discount, err := decimal.NewFromString(raw)
		if err != nil {
			return params, "discount must be a number"
		}
		params.Discount = discount
	}

	categoryID, err := uuid.Parse(strings.TrimSpace(r.FormValue("category")))
	if err != nil {
		return params, "invalid category id"
	}
	params.CategoryID = categoryID

	return params, ""
}

// ListProducts handles GET /api/products with optional category and search
// query parameters.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.ListFilter{Search: q.Get("search")}

	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid category id"})
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.productSvc.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := make([]productJSON, 0, len(products))
	for _, p := range products {
		data = append(data, toProductJSON(p))
	}
	writeJSON(w, http.StatusOK, data)
}

// GetProduct handles GET /api/products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.productSvc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductJSON(p))
}

// updateProductRequest lists the only fields a client may change.
type updateProductRequest struct {
	Description *string          `json:"description"`
	Discount    *decimal.Decimal `json:"discount"`
	Status      *string          `json:"status"`
}

// UpdateProduct handles PUT /api/products/{id}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{
			Error: "invalid JSON body: only description, discount and status can be updated",
		})
		return
	}

	p, err := h.productSvc.Update(r.Context(), id, product.UpdateProductParams{
		Description: req.Description,
		Discount:    req.Discount,
		Status:      req.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductJSON(p))
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.productSvc.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
