package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mercatto/cart-service/pkg/db/models"
)

func TestRepositoryFindByID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedProduct(t, db, 7)

	got, err := repo.FindByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if got.Stock != 7 {
		t.Fatalf("unexpected stock %d", got.Stock)
	}
	if got.Code != seeded.Code {
		t.Fatalf("unexpected code %q", got.Code)
	}
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRepositorySavePersistsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)
	product.Stock = 2
	if err := repo.Save(ctx, product); err != nil {
		t.Fatalf("save product: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2 after save, got %d", reloaded.Stock)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Title: "Test Product",
		Code:  "SKU-" + uuid.NewString(),
		Price: decimal.NewFromFloat(19.90),
		Stock: stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
