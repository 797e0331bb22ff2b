package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/payment/midtrans"
	"github.com/diecast-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCheckoutServiceTest(t *testing.T, gateway *midtrans.Client) (*CheckoutService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewCheckoutService(
		repository.NewCartRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		gateway,
		nil,
	)
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Tester",
		Role:         constants.RoleUser,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func addCartLine(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	if err := db.Create(&models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}

func newSnapTestServer(t *testing.T, serverKey string, status int, body interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/snap/v1/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, _, ok := r.BasicAuth()
		if !ok || user != serverKey {
			t.Errorf("expected basic auth with server key, got %q", user)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestCheckoutInitiate(t *testing.T) {
	srv := newSnapTestServer(t, "sk-test", http.StatusCreated, map[string]string{
		"token":        "snap-token-1",
		"redirect_url": "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-1",
	})
	defer srv.Close()

	gateway, err := midtrans.NewClient(midtrans.Config{ServerKey: "sk-test", BaseURL: srv.URL, TimeoutSec: 5})
	if err != nil {
		t.Fatalf("new gateway failed: %v", err)
	}
	svc, db := setupCheckoutServiceTest(t, gateway)
	user := createTestUser(t, db, "buyer@example.com")
	product := createTestProduct(t, db, "CHK-001", 185000, 10)
	addCartLine(t, db, user.ID, product.ID, 2)

	result, err := svc.Initiate(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if result.Token != "snap-token-1" {
		t.Fatalf("token want snap-token-1 got %s", result.Token)
	}
	if !strings.HasPrefix(result.PaymentRef, constants.PaymentRefPrefix+"-") {
		t.Fatalf("payment ref should carry prefix, got %s", result.PaymentRef)
	}
	if !result.GrossAmount.Decimal.Equal(decimal.NewFromInt(370000)) {
		t.Fatalf("gross amount want 370000 got %s", result.GrossAmount.String())
	}

	// 发起结算不动库存与购物车
	if stock := reloadProductStock(t, db, product.ID); stock != 10 {
		t.Fatalf("stock should be untouched, got %d", stock)
	}
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 1 {
		t.Fatalf("cart should be untouched, got %d rows", cartCount)
	}
}

func TestCheckoutInitiateEmptyCart(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "empty@example.com")

	if _, err := svc.Initiate(context.Background(), user.ID); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}

func TestCheckoutInitiateRejectsNonIntegerAmount(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "frac@example.com")
	product := &models.Product{
		ProductCode: "CHK-002",
		Name:        "Fractional",
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("185000.50")),
		Stock:       5,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	addCartLine(t, db, user.ID, product.ID, 1)

	if _, err := svc.Initiate(context.Background(), user.ID); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("want ErrAmountInvalid got %v", err)
	}
}

func TestCheckoutInitiateGatewayNotConfigured(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "nogw@example.com")
	product := createTestProduct(t, db, "CHK-003", 95000, 5)
	addCartLine(t, db, user.ID, product.ID, 1)

	if _, err := svc.Initiate(context.Background(), user.ID); !errors.Is(err, ErrPaymentNotConfigured) {
		t.Fatalf("want ErrPaymentNotConfigured got %v", err)
	}
}

func TestCheckoutInitiateGatewayError(t *testing.T) {
	srv := newSnapTestServer(t, "sk-test", http.StatusUnauthorized, map[string]interface{}{
		"error_messages": []string{"Access denied due to unauthorized transaction"},
	})
	defer srv.Close()
	gateway, err := midtrans.NewClient(midtrans.Config{ServerKey: "sk-test", BaseURL: srv.URL, TimeoutSec: 5})
	if err != nil {
		t.Fatalf("new gateway failed: %v", err)
	}
	svc, db := setupCheckoutServiceTest(t, gateway)
	user := createTestUser(t, db, "denied@example.com")
	product := createTestProduct(t, db, "CHK-004", 95000, 5)
	addCartLine(t, db, user.ID, product.ID, 1)

	if _, err := svc.Initiate(context.Background(), user.ID); !errors.Is(err, ErrGatewayRequestFailed) {
		t.Fatalf("want ErrGatewayRequestFailed got %v", err)
	}
}

func TestCheckoutConfirmRejectsUnconfirmedStatus(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "unpaid@example.com")
	product := createTestProduct(t, db, "CHK-005", 95000, 5)
	addCartLine(t, db, user.ID, product.ID, 1)

	for _, status := range []string{"pending", "deny", "expire", "cancel", ""} {
		if _, err := svc.Confirm(user.ID, status, "ORDER-1"); !errors.Is(err, ErrPaymentNotConfirmed) {
			t.Fatalf("status %q want ErrPaymentNotConfirmed got %v", status, err)
		}
	}
}

func TestCheckoutConfirmCreatesOrderAndClearsCart(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "paid@example.com")
	// 购物车加入时已扣过库存，这里的 8 表示剩余可售量
	product := createTestProduct(t, db, "CHK-006", 185000, 8)
	addCartLine(t, db, user.ID, product.ID, 2)

	order, err := svc.Confirm(user.ID, "SETTLEMENT", "ORDER-1700000000")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("new order status want pending got %s", order.Status)
	}
	if !strings.HasPrefix(order.OrderCode, constants.OrderCodePrefix+"-") {
		t.Fatalf("order code should carry prefix, got %s", order.OrderCode)
	}
	if order.PaymentRef != "ORDER-1700000000" {
		t.Fatalf("payment ref want ORDER-1700000000 got %s", order.PaymentRef)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(370000)) {
		t.Fatalf("total want 370000 got %s", order.TotalPrice.String())
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		t.Fatalf("load order items failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 || items[0].ProductName != product.Name {
		t.Fatalf("unexpected order items: %+v", items)
	}

	// 确认不动库存（预占从购物车转移到订单）
	if stock := reloadProductStock(t, db, product.ID); stock != 8 {
		t.Fatalf("stock should be untouched by confirm, got %d", stock)
	}
	var cartCount int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("cart should be cleared, got %d rows", cartCount)
	}
}

func TestCheckoutReAddAfterConfirm(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	cartSvc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "repeat@example.com")
	product := createTestProduct(t, db, "CHK-008", 185000, 10)

	if err := cartSvc.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := svc.Confirm(user.ID, constants.PaymentStatusSettlement, "ORDER-4"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// 结算清空购物车后，同一商品必须能再次加入
	if err := cartSvc.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("re-add after confirm failed: %v", err)
	}
	items, err := cartSvc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected a fresh line with quantity 1, got %+v", items)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 8 {
		t.Fatalf("stock want 8 got %d", stock)
	}
}

func TestCheckoutConfirmSnapshotPricing(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "snapshot@example.com")
	product := createTestProduct(t, db, "CHK-007", 185000, 8)
	addCartLine(t, db, user.ID, product.ID, 1)

	order, err := svc.Confirm(user.ID, constants.PaymentStatusSettlement, "ORDER-2")
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// 改价不回溯已落单价格
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromInt(250000)).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	var item models.OrderItem
	if err := db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("load order item failed: %v", err)
	}
	if !item.Price.Decimal.Equal(decimal.NewFromInt(185000)) {
		t.Fatalf("snapshot price want 185000 got %s", item.Price.String())
	}
}

func TestCheckoutConfirmEmptyCart(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t, nil)
	user := createTestUser(t, db, "noitems@example.com")

	if _, err := svc.Confirm(user.ID, constants.PaymentStatusSettlement, "ORDER-3"); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
}
