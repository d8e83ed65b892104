package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgecommerce/catalog/internal/database"
	db "github.com/forgecommerce/catalog/internal/database/gen"
)

var (
	// ErrNotFound is returned when a category does not exist.
	ErrNotFound = errors.New("category not found")

	// ErrNameRequired is returned when a category is created without a name.
	ErrNameRequired = errors.New("category name is required")

	// ErrAlreadyExists is returned when a category with the same name exists.
	ErrAlreadyExists = errors.New("category already exists")
)

const nameConstraint = "categories_name_key"

// Service provides business logic for product categories.
type Service struct {
	queries *db.Queries
	logger  *slog.Logger
}

// NewService creates a new category service backed by the given connection pool.
func NewService(pool *pgxpool.Pool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		queries: db.New(pool),
		logger:  logger,
	}
}

// Create adds a category. Surrounding whitespace in name is ignored.
func (s *Service) Create(ctx context.Context, name string) (db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return db.Category{}, ErrNameRequired
	}

	_, err := s.queries.GetCategoryByName(ctx, name)
	switch {
	case err == nil:
		return db.Category{}, ErrAlreadyExists
	case !errors.Is(err, pgx.ErrNoRows):
		return db.Category{}, fmt.Errorf("checking category %q: %w", name, err)
	}

	cat, err := s.queries.CreateCategory(ctx, db.CreateCategoryParams{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// A concurrent create can pass the lookup above.
		if database.IsUniqueViolation(err, nameConstraint) {
			return db.Category{}, ErrAlreadyExists
		}
		return db.Category{}, fmt.Errorf("creating category %q: %w", name, err)
	}

	s.logger.Info("category created",
		slog.String("id", cat.ID.String()),
		slog.String("name", cat.Name),
	)

	return cat, nil
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]db.Category, error) {
	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	if categories == nil {
		categories = []db.Category{}
	}
	return categories, nil
}

// Get returns a single category by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (db.Category, error) {
	cat, err := s.queries.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Category{}, ErrNotFound
		}
		return db.Category{}, fmt.Errorf("getting category %s: %w", id, err)
	}
	return cat, nil
}

// Exists reports whether a category with the given ID exists.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.queries.CategoryExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("checking category %s: %w", id, err)
	}
	return ok, nil
}
