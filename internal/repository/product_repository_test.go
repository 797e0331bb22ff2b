package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/diecast-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductRepoTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createRepoProduct(t *testing.T, repo *GormProductRepository, code string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ProductCode: code,
		Name:        "Diecast " + code,
		Price:       models.NewMoneyFromInt(185000),
		Stock:       stock,
		IsActive:    active,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductAdjustStock(t *testing.T) {
	repo, _ := setupProductRepoTest(t)
	product := createRepoProduct(t, repo, "REP-001", 10, true)

	if err := repo.AdjustStock(product.ID, -3); err != nil {
		t.Fatalf("deduct failed: %v", err)
	}
	got, err := repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("get product failed: %v", err)
	}
	if got.Stock != 7 {
		t.Fatalf("stock want 7 got %d", got.Stock)
	}

	if err := repo.AdjustStock(product.ID, 5); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	got, _ = repo.GetByID(product.ID)
	if got.Stock != 12 {
		t.Fatalf("stock want 12 got %d", got.Stock)
	}
}

func TestProductAdjustStockNoops(t *testing.T) {
	repo, _ := setupProductRepoTest(t)
	product := createRepoProduct(t, repo, "REP-002", 10, true)

	// 零增量与零 ID 均为空操作
	if err := repo.AdjustStock(product.ID, 0); err != nil {
		t.Fatalf("zero delta should be a no-op: %v", err)
	}
	if err := repo.AdjustStock(0, 5); err != nil {
		t.Fatalf("zero id should be a no-op: %v", err)
	}
	got, _ := repo.GetByID(product.ID)
	if got.Stock != 10 {
		t.Fatalf("stock want 10 got %d", got.Stock)
	}
}

func TestProductGetMissingReturnsNil(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	got, err := repo.GetByID(9999)
	if err != nil || got != nil {
		t.Fatalf("missing product want nil,nil got %v,%v", got, err)
	}
	got, err = repo.GetByCode("NOPE")
	if err != nil || got != nil {
		t.Fatalf("missing code want nil,nil got %v,%v", got, err)
	}

	err = repo.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).GetForUpdate(9999)
		if err != nil {
			return err
		}
		if locked != nil {
			t.Fatalf("missing locked product want nil got %v", locked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestProductGetForUpdate(t *testing.T) {
	repo, _ := setupProductRepoTest(t)
	product := createRepoProduct(t, repo, "REP-003", 4, true)

	err := repo.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		locked, err := txRepo.GetForUpdate(product.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.Stock != 4 {
			t.Fatalf("unexpected locked product: %+v", locked)
		}
		return txRepo.AdjustStock(product.ID, -4)
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
	got, _ := repo.GetByID(product.ID)
	if got.Stock != 0 {
		t.Fatalf("stock want 0 got %d", got.Stock)
	}
}

func TestProductCountByCode(t *testing.T) {
	repo, _ := setupProductRepoTest(t)
	product := createRepoProduct(t, repo, "REP-004", 1, true)

	count, err := repo.CountByCode("REP-004", nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}

	// 排除自身后应为 0（更新场景）
	count, err = repo.CountByCode("REP-004", &product.ID)
	if err != nil {
		t.Fatalf("count with exclude failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("count want 0 got %d", count)
	}
}

func TestProductListFilters(t *testing.T) {
	repo, _ := setupProductRepoTest(t)
	createRepoProduct(t, repo, "REP-005", 3, true)
	createRepoProduct(t, repo, "REP-006", 3, false)

	products, total, err := repo.List(ProductListFilter{OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ProductCode != "REP-005" {
		t.Fatalf("active filter mismatch: total=%d products=%+v", total, products)
	}

	products, total, err = repo.List(ProductListFilter{Search: "REP-006", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ProductCode != "REP-006" {
		t.Fatalf("search filter mismatch: total=%d products=%+v", total, products)
	}
}
