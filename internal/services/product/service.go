package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/forgecommerce/catalog/internal/database"
	db "github.com/forgecommerce/catalog/internal/database/gen"
	"github.com/forgecommerce/catalog/internal/metrics"
	"github.com/forgecommerce/catalog/internal/productcode"
	"github.com/forgecommerce/catalog/internal/services/media"
)

var (
	// ErrNotFound is returned when a product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrNameRequired is returned when a product name is empty.
	ErrNameRequired = errors.New("product name is required")

	// ErrDescriptionRequired is returned when a product description is empty.
	ErrDescriptionRequired = errors.New("product description is required")

	// ErrInvalidPrice is returned for negative or out of range prices.
	ErrInvalidPrice = errors.New("price must be between 0 and 9999999999.99")

	// ErrInvalidDiscount is returned when the discount is outside 0-100.
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")

	// ErrInvalidStatus is returned for a status other than "In Stock" or "Stock Out".
	ErrInvalidStatus = errors.New(`status must be "In Stock" or "Stock Out"`)

	// ErrImageRequired is returned when a product is created without images.
	ErrImageRequired = errors.New("at least one product image is required")

	// ErrCategoryNotFound is returned when the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCodeConflict is returned when another product took the resolved code
	// between resolution and insert. The request can be retried.
	ErrCodeConflict = errors.New("product code conflict, retry")
)

// Product statuses.
const (
	StatusInStock  = "In Stock"
	StatusStockOut = "Stock Out"
)

const productCodeConstraint = "products_product_code_key"

// Product is a catalog product with its category name and images.
type Product struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	Discount     decimal.Decimal
	Status       string
	ProductCode  string
	CategoryID   uuid.UUID
	CategoryName string
	Images       []Image
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FinalPrice is the price after discount.
func (p Product) FinalPrice() decimal.Decimal {
	return FinalPrice(p.Price, p.Discount)
}

// Image is a stored product image.
type Image struct {
	ID       uuid.UUID
	URL      string
	Key      string
	Position int32
}

// CreateProductParams contains the input fields for creating a product.
// Images must already be uploaded; they are removed if creation fails.
type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Status      string
	CategoryID  uuid.UUID
	Images      []media.Asset
}

// UpdateProductParams holds the mutable product fields. Nil fields are left
// unchanged.
type UpdateProductParams struct {
	Description *string
	Discount    *decimal.Decimal
	Status      *string
}

// ListFilter narrows List results. Zero values mean no filter.
type ListFilter struct {
	CategoryID *uuid.UUID
	Search     string
}

// Service provides business logic for products.
type Service struct {
	queries    *db.Queries
	pool       *pgxpool.Pool
	media      *media.Service
	codeLookup productcode.ExistsFunc
	logger     *slog.Logger
}

// NewService creates a new product service. mediaSvc is used to remove the
// images of failed creates and deleted products.
func NewService(pool *pgxpool.Pool, mediaSvc *media.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		queries: db.New(pool),
		pool:    pool,
		media:   mediaSvc,
		logger:  logger,
	}
	s.codeLookup = s.codeTaken
	return s
}

// Create validates params, assigns a unique product code and stores the
// product with its images in one transaction.
func (s *Service) Create(ctx context.Context, params CreateProductParams) (Product, error) {
	p, err := s.create(ctx, params)
	if err != nil && len(params.Images) > 0 {
		// The request context may already be done.
		s.cleanupImages(context.WithoutCancel(ctx), params.Images)
	}
	return p, err
}

func (s *Service) create(ctx context.Context, params CreateProductParams) (Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Description = strings.TrimSpace(params.Description)

	if params.Name == "" {
		return Product{}, ErrNameRequired
	}
	if params.Description == "" {
		return Product{}, ErrDescriptionRequired
	}
	if err := validatePrice(params.Price); err != nil {
		return Product{}, err
	}
	if err := validateDiscount(params.Discount); err != nil {
		return Product{}, err
	}
	if err := validateStatus(params.Status); err != nil {
		return Product{}, err
	}
	if len(params.Images) == 0 {
		return Product{}, ErrImageRequired
	}

	cat, err := s.queries.GetCategory(ctx, params.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrCategoryNotFound
		}
		return Product{}, fmt.Errorf("checking category %s: %w", params.CategoryID, err)
	}

	code, err := productcode.Resolve(ctx, productcode.Generate(params.Name), s.codeLookup)
	if err != nil {
		return Product{}, fmt.Errorf("resolving product code: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Product{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)
	now := time.Now().UTC()

	row, err := qtx.CreateProduct(ctx, db.CreateProductParams{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Price:       decimalToNumeric(params.Price),
		Discount:    decimalToNumeric(params.Discount),
		Status:      params.Status,
		ProductCode: code,
		CategoryID:  params.CategoryID,
		CreatedAt:   now,
	})
	if err != nil {
		if database.IsUniqueViolation(err, productCodeConstraint) {
			metrics.ProductCodeConflicts.Inc()
			s.logger.Warn("product code taken concurrently", slog.String("product_code", code))
			return Product{}, ErrCodeConflict
		}
		return Product{}, fmt.Errorf("creating product: %w", err)
	}

	images := make([]db.ProductImage, 0, len(params.Images))
	for i, asset := range params.Images {
		img, err := qtx.CreateProductImage(ctx, db.CreateProductImageParams{
			ID:         uuid.New(),
			ProductID:  row.ID,
			Url:        asset.URL,
			StorageKey: asset.Key,
			Position:   int32(i),
			CreatedAt:  now,
		})
		if err != nil {
			return Product{}, fmt.Errorf("creating product image: %w", err)
		}
		images = append(images, img)
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, fmt.Errorf("committing product: %w", err)
	}

	metrics.ProductCodesGenerated.Inc()
	s.logger.Info("product created",
		slog.String("product_id", row.ID.String()),
		slog.String("name", row.Name),
		slog.String("product_code", row.ProductCode),
	)

	return fromRow(row, cat.Name, images), nil
}

// Update changes the description, discount and status of a product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateProductParams) (Product, error) {
	existing, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("fetching product for update: %w", err)
	}

	update := db.UpdateProductParams{
		ID:          id,
		Description: existing.Description,
		Discount:    existing.Discount,
		Status:      existing.Status,
		UpdatedAt:   time.Now().UTC(),
	}
	if params.Description != nil {
		update.Description = strings.TrimSpace(*params.Description)
		if update.Description == "" {
			return Product{}, ErrDescriptionRequired
		}
	}
	if params.Discount != nil {
		if err := validateDiscount(*params.Discount); err != nil {
			return Product{}, err
		}
		update.Discount = decimalToNumeric(*params.Discount)
	}
	if params.Status != nil {
		if err := validateStatus(*params.Status); err != nil {
			return Product{}, err
		}
		update.Status = *params.Status
	}

	row, err := s.queries.UpdateProduct(ctx, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("updating product %s: %w", id, err)
	}

	s.logger.Info("product updated",
		slog.String("product_id", row.ID.String()),
		slog.String("status", row.Status),
	)

	return s.hydrate(ctx, row)
}

// Get returns a single product by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	row, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("getting product %s: %w", id, err)
	}
	return s.hydrate(ctx, row)
}

// List returns products, newest first, narrowed by the filter. Search is a
// case-insensitive substring match on the product name.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	params := db.ListProductsParams{Search: escapeLike(strings.TrimSpace(filter.Search))}

	if filter.CategoryID != nil {
		ok, err := s.queries.CategoryExists(ctx, *filter.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("checking category %s: %w", *filter.CategoryID, err)
		}
		if !ok {
			return nil, ErrCategoryNotFound
		}
		params.CategoryID = pgtype.UUID{Bytes: *filter.CategoryID, Valid: true}
	}

	rows, err := s.queries.ListProducts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	if len(rows) == 0 {
		return products, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	images, err := s.queries.ListProductImagesByProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing product images: %w", err)
	}
	byProduct := make(map[uuid.UUID][]db.ProductImage, len(rows))
	for _, img := range images {
		byProduct[img.ProductID] = append(byProduct[img.ProductID], img)
	}

	for _, r := range rows {
		products = append(products, fromRow(db.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Discount:    r.Discount,
			Status:      r.Status,
			ProductCode: r.ProductCode,
			CategoryID:  r.CategoryID,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}, r.CategoryName, byProduct[r.ID]))
	}
	return products, nil
}

// Delete removes a product and its image records, then deletes the image
// files best-effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.queries.GetProduct(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching product for delete: %w", err)
	}

	images, err := s.queries.ListProductImagesByProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("listing images for delete: %w", err)
	}

	if err := s.queries.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}

	assets := make([]media.Asset, 0, len(images))
	for _, img := range images {
		assets = append(assets, media.Asset{Key: img.StorageKey, URL: img.Url})
	}
	s.cleanupImages(context.WithoutCancel(ctx), assets)

	s.logger.Info("product deleted", slog.String("product_id", id.String()))
	return nil
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNameRequired, ErrDescriptionRequired, ErrInvalidPrice,
		ErrInvalidDiscount, ErrInvalidStatus, ErrImageRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// codeTaken counts collisions as it checks candidate codes.
func (s *Service) codeTaken(ctx context.Context, code string) (bool, error) {
	taken, err := s.queries.ProductCodeExists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("checking product code %q: %w", code, err)
	}
	if taken {
		metrics.ProductCodeCollisions.Inc()
	}
	return taken, nil
}

func (s *Service) hydrate(ctx context.Context, row db.Product) (Product, error) {
	cat, err := s.queries.GetCategory(ctx, row.CategoryID)
	if err != nil {
		return Product{}, fmt.Errorf("getting category for product %s: %w", row.ID, err)
	}
	images, err := s.queries.ListProductImagesByProduct(ctx, row.ID)
	if err != nil {
		return Product{}, fmt.Errorf("listing images for product %s: %w", row.ID, err)
	}
	return fromRow(row, cat.Name, images), nil
}

func (s *Service) cleanupImages(ctx context.Context, assets []media.Asset) {
	if s.media == nil {
		return
	}
	s.media.Cleanup(ctx, assets)
}

func fromRow(row db.Product, categoryName string, images []db.ProductImage) Product {
	p := Product{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Price:        numericToDecimal(row.Price),
		Discount:     numericToDecimal(row.Discount),
		Status:       row.Status,
		ProductCode:  row.ProductCode,
		CategoryID:   row.CategoryID,
		CategoryName: categoryName,
		Images:       make([]Image, 0, len(images)),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	for _, img := range images {
		p.Images = append(p.Images, Image{
			ID:       img.ID,
			URL:      img.Url,
			Key:      img.StorageKey,
			Position: img.Position,
		})
	}
	return p
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() || price.GreaterThanOrEqual(maxPrice) {
		return ErrInvalidPrice
	}
	return nil
}

func validateDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

func validateStatus(status string) error {
	if status != StatusInStock && status != StatusStockOut {
		return ErrInvalidStatus
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
