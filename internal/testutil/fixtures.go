package testutil

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/forgecommerce/catalog/internal/database/gen"
)

// FixtureCategory inserts a category and returns it.
func (tdb *TestDB) FixtureCategory(t *testing.T, name string) db.Category {
	t.Helper()
	q := db.New(tdb.Pool)

	cat, err := q.CreateCategory(context.Background(), db.CreateCategoryParams{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("creating fixture category %q: %v", name, err)
	}
	return cat
}

// FixtureProduct inserts an in-stock product priced 25.00 with no discount,
// using code as its product code verbatim, and one image.
func (tdb *TestDB) FixtureProduct(t *testing.T, name, code string, categoryID uuid.UUID) db.Product {
	t.Helper()
	q := db.New(tdb.Pool)
	ctx := context.Background()

	now := time.Now().UTC()
	product, err := q.CreateProduct(ctx, db.CreateProductParams{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Price:       pgtype.Numeric{Int: big.NewInt(2500), Exp: -2, Valid: true}, // 25.00
		Discount:    pgtype.Numeric{Int: big.NewInt(0), Exp: 0, Valid: true},
		Status:      "In Stock",
		ProductCode: code,
		CategoryID:  categoryID,
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("creating fixture product %q: %v", name, err)
	}

	key := "product-images/" + product.ID.String() + "-fixture.jpg"
	if _, err := q.CreateProductImage(ctx, db.CreateProductImageParams{
		ID:         uuid.New(),
		ProductID:  product.ID,
		Url:        "/media/" + key,
		StorageKey: key,
		Position:   0,
		CreatedAt:  now,
	}); err != nil {
		t.Fatalf("creating fixture image for %q: %v", name, err)
	}

	return product
}
