package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	db "github.com/forgecommerce/catalog/internal/database/gen"
	"github.com/forgecommerce/catalog/internal/services/category"
	"github.com/forgecommerce/catalog/internal/services/media"
	"github.com/forgecommerce/catalog/internal/services/product"
)

// maxJSONBody limits JSON request bodies.
const maxJSONBody = 1 << 20

// maxImagesPerProduct bounds the multipart body of a product create.
const maxImagesPerProduct = 10

// CatalogHandler holds dependencies for the catalog API handlers.
type CatalogHandler struct {
	productSvc  *product.Service
	categorySvc *category.Service
	mediaSvc    *media.Service
	logger      *slog.Logger
}

// NewCatalogHandler creates a new catalog API handler with all required dependencies.
func NewCatalogHandler(
	productSvc *product.Service,
	categorySvc *category.Service,
	mediaSvc *media.Service,
	logger *slog.Logger,
) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{
		productSvc:  productSvc,
		categorySvc: categorySvc,
		mediaSvc:    mediaSvc,
		logger:      logger,
	}
}

// RegisterRoutes registers all catalog API routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)

	mux.HandleFunc("POST /api/categories", h.CreateCategory)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", h.GetCategory)

	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)
}

// Health reports that the process is serving requests.
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- JSON response types ---

// errorJSON is the standard error response body.
type errorJSON struct {
	Error string `json:"error"`
}

type categoryJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type categoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// productJSON is the API representation of a product. Money values are
// fixed-point strings.
type productJSON struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Discount    string      `json:"discount"`
	FinalPrice  string      `json:"finalPrice"`
	Status      string      `json:"status"`
	ProductCode string      `json:"productCode"`
	Category    categoryRef `json:"category"`
	Images      []string    `json:"images"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func toCategoryJSON(c db.Category) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProductJSON(p product.Product) productJSON {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Discount:    p.Discount.String(),
		FinalPrice:  p.FinalPrice().StringFixed(2),
		Status:      p.Status,
		ProductCode: p.ProductCode,
		Category:    categoryRef{ID: p.CategoryID, Name: p.CategoryName},
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// --- Helpers ---

// writeError maps service errors onto HTTP statuses. Unrecognised errors are
// logged and reported as 500.
func (h *CatalogHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, media.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorJSON{Error: "request too large"})
	case media.IsRejected(err), product.IsValidation(err),
		errors.Is(err, category.ErrNameRequired),
		errors.Is(err, category.ErrAlreadyExists),
		errors.Is(err, product.ErrCategoryNotFound):
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
	case errors.Is(err, product.ErrNotFound), errors.Is(err, category.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorJSON{Error: err.Error()})
	case errors.Is(err, product.ErrCodeConflict):
		writeJSON(w, http.StatusConflict, errorJSON{Error: err.Error()})
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "internal server error"})
	}
}

// pathID parses the {id} path value, writing a 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeJSON serializes v as JSON and writes it to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent.
		slog.Error("failed to encode JSON response", "error", err)
	}
}
