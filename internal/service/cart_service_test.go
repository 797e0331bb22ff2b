package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, code string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ProductCode: code,
		Name:        "Test Diecast " + code,
		Price:       models.NewMoneyFromInt(price),
		Stock:       stock,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)), db
}

func reloadProductStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return product.Stock
}

func TestCartAddItemReservesStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-001", 185000, 10)

	if err := svc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if stock := reloadProductStock(t, db, product.ID); stock != 7 {
		t.Fatalf("stock want 7 got %d", stock)
	}
	items, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected cart contents: %+v", items)
	}
	if !items[0].Subtotal.Decimal.Equal(models.NewMoneyFromInt(555000).Decimal) {
		t.Fatalf("subtotal want 555000 got %s", items[0].Subtotal.String())
	}
}

func TestCartAddItemMergesExistingLine(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-002", 95000, 10)

	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected single merged line with quantity 5, got %+v", items)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 5 {
		t.Fatalf("stock want 5 got %d", stock)
	}
}

func TestCartAddItemOutOfStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-003", 125000, 0)

	err := svc.AddItem(1, product.ID, 1)
	if !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("expected ErrProductOutOfStock, got %v", err)
	}
}

func TestCartAddItemStockShortage(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-004", 125000, 2)

	err := svc.AddItem(1, product.ID, 5)
	var shortage *StockShortageError
	if !errors.As(err, &shortage) {
		t.Fatalf("expected StockShortageError, got %v", err)
	}
	if shortage.Available != 2 || shortage.Requested != 5 {
		t.Fatalf("unexpected shortage detail: %+v", shortage)
	}
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("shortage should match ErrStockInsufficient sentinel")
	}
	// 库存未被部分扣减
	if stock := reloadProductStock(t, db, product.ID); stock != 2 {
		t.Fatalf("stock want 2 got %d", stock)
	}
}

func TestCartAddItemExactStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-005", 750000, 5)

	if err := svc.AddItem(1, product.ID, 5); err != nil {
		t.Fatalf("exact-stock add failed: %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 0 {
		t.Fatalf("stock want 0 got %d", stock)
	}
}

func TestCartAddItemInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-006", 99000, 5)
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if err := svc.AddItem(1, product.ID, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestCartSetItemQuantityAdjustsByDelta(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-007", 185000, 10)
	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, err := svc.ListByUser(1)
	if err != nil || len(items) != 1 {
		t.Fatalf("list cart failed: %v (%d items)", err, len(items))
	}
	itemID := items[0].ID

	// 调大：追加预占差量
	if err := svc.SetItemQuantity(1, itemID, 5); err != nil {
		t.Fatalf("increase quantity failed: %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 5 {
		t.Fatalf("stock after increase want 5 got %d", stock)
	}

	// 调小：释放差量
	if err := svc.SetItemQuantity(1, itemID, 1); err != nil {
		t.Fatalf("decrease quantity failed: %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 9 {
		t.Fatalf("stock after decrease want 9 got %d", stock)
	}

	// 超出余量：报不足并保持原状
	err = svc.SetItemQuantity(1, itemID, 100)
	var shortage *StockShortageError
	if !errors.As(err, &shortage) {
		t.Fatalf("expected StockShortageError, got %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 9 {
		t.Fatalf("stock should be unchanged after shortage, got %d", stock)
	}
}

func TestCartSetItemQuantityRejectsZero(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-008", 185000, 10)
	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, _ := svc.ListByUser(1)

	if err := svc.SetItemQuantity(1, items[0].ID, 0); !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
}

func TestCartRemoveItemRestocks(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-009", 185000, 10)
	if err := svc.AddItem(1, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, _ := svc.ListByUser(1)

	if err := svc.RemoveItem(1, items[0].ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 10 {
		t.Fatalf("stock want 10 after restock, got %d", stock)
	}
	remaining, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("cart should be empty, got %d items", len(remaining))
	}
}

func TestCartReAddAfterRemove(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-014", 185000, 10)

	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, _ := svc.ListByUser(1)
	if err := svc.RemoveItem(1, items[0].ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}

	// 移除后同一商品必须能重新加入（唯一索引不被历史行占用）
	if err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("re-add after remove failed: %v", err)
	}
	items, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected a fresh line with quantity 2, got %+v", items)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 8 {
		t.Fatalf("stock want 8 got %d", stock)
	}
}

func TestCartRemoveItemSkipsRestockForDeletedProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-010", 185000, 10)
	if err := svc.AddItem(1, product.ID, 4); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, _ := svc.ListByUser(1)
	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	if err := svc.RemoveItem(1, items[0].ID); err != nil {
		t.Fatalf("remove item with deleted product failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart should be empty, got %d rows", count)
	}
}

func TestCartListSkipsDeletedProducts(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	kept := createTestProduct(t, db, "DC-011", 185000, 10)
	dropped := createTestProduct(t, db, "DC-012", 95000, 10)
	if err := svc.AddItem(1, kept.ID, 1); err != nil {
		t.Fatalf("add kept failed: %v", err)
	}
	if err := svc.AddItem(1, dropped.ID, 1); err != nil {
		t.Fatalf("add dropped failed: %v", err)
	}
	if err := db.Delete(&models.Product{}, dropped.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	items, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != kept.ID {
		t.Fatalf("expected only the surviving product, got %+v", items)
	}
}

func TestCartRemoveItemOwnershipChecked(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "DC-013", 185000, 10)
	if err := svc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	items, _ := svc.ListByUser(1)

	if err := svc.RemoveItem(2, items[0].ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound for foreign user, got %v", err)
	}
}
