package service

import (
	"errors"
	"testing"

	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"

	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	return NewOrderService(repository.NewOrderRepository(db), repository.NewProductRepository(db), nil), db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID uint, code, status string, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderCode:  code,
		UserID:     userID,
		Status:     status,
		TotalPrice: models.NewMoneyFromInt(100000),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			t.Fatalf("create order items failed: %v", err)
		}
	}
	return order
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) *models.Order {
	t.Helper()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return &order
}

func TestOrderUserCancelHandshake(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "ORD-P1", 185000, 0)
	order := createTestOrder(t, db, 1, "ORD-TEST-0001", constants.OrderStatusPending, []models.OrderItem{
		{ProductID: product.ID, ProductName: product.Name, Quantity: 3, Price: product.Price},
	})

	// 用户发起取消申请
	updated, err := svc.RequestCancelByUser(order.ID, 1)
	if err != nil {
		t.Fatalf("request cancel failed: %v", err)
	}
	if updated.CancelRequestedBy == nil || *updated.CancelRequestedBy != constants.CancelActorUser {
		t.Fatalf("cancel_requested_by want user got %v", updated.CancelRequestedBy)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("request alone must not cancel the order, got %s", updated.Status)
	}

	// 管理员确认：订单取消并回补库存
	cancelled, err := svc.AcceptCancelByAdmin(order.ID)
	if err != nil {
		t.Fatalf("accept cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || !cancelled.CancelApproved {
		t.Fatalf("order should be cancelled and approved, got %+v", cancelled)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 3 {
		t.Fatalf("stock want 3 after restock, got %d", stock)
	}
}

func TestOrderAdminCancelHandshake(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "ORD-P2", 95000, 1)
	order := createTestOrder(t, db, 7, "ORD-TEST-0002", constants.OrderStatusPending, []models.OrderItem{
		{ProductID: product.ID, ProductName: product.Name, Quantity: 2, Price: product.Price},
	})

	if _, err := svc.RequestCancelByAdmin(order.ID); err != nil {
		t.Fatalf("admin request cancel failed: %v", err)
	}

	// 用户确认管理员的申请
	cancelled, err := svc.AcceptCancelByUser(order.ID, 7)
	if err != nil {
		t.Fatalf("user accept cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("order should be cancelled, got %s", cancelled.Status)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 3 {
		t.Fatalf("stock want 3 after restock, got %d", stock)
	}
}

func TestOrderRepeatCancelRequestConflicts(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0003", constants.OrderStatusPending, nil)

	if _, err := svc.RequestCancelByUser(order.ID, 1); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	// 同方重复申请
	if _, err := svc.RequestCancelByUser(order.ID, 1); !errors.Is(err, ErrCancelAlreadyRequested) {
		t.Fatalf("repeat user request want ErrCancelAlreadyRequested got %v", err)
	}
	// 对向在用户申请在途时再发申请
	if _, err := svc.RequestCancelByAdmin(order.ID); !errors.Is(err, ErrCancelAlreadyRequested) {
		t.Fatalf("admin request over pending user request want ErrCancelAlreadyRequested got %v", err)
	}
}

func TestOrderAcceptWithoutMatchingRequest(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0004", constants.OrderStatusPending, nil)

	// 无任何申请时确认
	if _, err := svc.AcceptCancelByAdmin(order.ID); !errors.Is(err, ErrCancelNotRequested) {
		t.Fatalf("want ErrCancelNotRequested got %v", err)
	}

	// 用户申请不能由用户自己确认
	if _, err := svc.RequestCancelByUser(order.ID, 1); err != nil {
		t.Fatalf("request cancel failed: %v", err)
	}
	if _, err := svc.AcceptCancelByUser(order.ID, 1); !errors.Is(err, ErrCancelNotRequested) {
		t.Fatalf("self-accept want ErrCancelNotRequested got %v", err)
	}
}

func TestOrderCancelRequestOnlyWhilePending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0005", constants.OrderStatusShipping, nil)

	if _, err := svc.RequestCancelByUser(order.ID, 1); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("shipping order cancel request want ErrOrderTransitionInvalid got %v", err)
	}
}

func TestOrderAdminDirectCancelNeedsHandshake(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0006", constants.OrderStatusPending, nil)

	// 用户未申请时管理员直接置 cancelled 被拒
	if _, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrCancelNeedsHandshake) {
		t.Fatalf("want ErrCancelNeedsHandshake got %v", err)
	}

	// 用户申请后同一操作等价于确认
	if _, err := svc.RequestCancelByUser(order.ID, 1); err != nil {
		t.Fatalf("request cancel failed: %v", err)
	}
	cancelled, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("admin cancel after user request failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || !cancelled.CancelApproved {
		t.Fatalf("order should be cancelled and approved, got %+v", cancelled)
	}
}

func TestOrderAdminStatusTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0007", constants.OrderStatusPending, nil)

	shipped, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusShipping)
	if err != nil {
		t.Fatalf("pending->shipping failed: %v", err)
	}
	if shipped.Status != constants.OrderStatusShipping {
		t.Fatalf("status want shipping got %s", shipped.Status)
	}

	// 回退与跳级均不允许
	if _, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusPending); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("shipping->pending want ErrOrderTransitionInvalid got %v", err)
	}
	if _, err := svc.UpdateStatusByAdmin(order.ID, "refunded"); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("unknown status want ErrOrderTransitionInvalid got %v", err)
	}

	done, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusDone)
	if err != nil {
		t.Fatalf("shipping->done failed: %v", err)
	}
	if done.Status != constants.OrderStatusDone {
		t.Fatalf("status want done got %s", done.Status)
	}
}

func TestOrderAdminMarksPendingDone(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0013", constants.OrderStatusPending, nil)

	// 管理员可从 pending 直接置 done（不经配送的场景）
	done, err := svc.UpdateStatusByAdmin(order.ID, constants.OrderStatusDone)
	if err != nil {
		t.Fatalf("pending->done failed: %v", err)
	}
	if done.Status != constants.OrderStatusDone {
		t.Fatalf("status want done got %s", done.Status)
	}
	if reloaded := reloadOrder(t, db, order.ID); reloaded.Status != constants.OrderStatusDone {
		t.Fatalf("persisted status want done got %s", reloaded.Status)
	}
}

func TestOrderCancelRestocksOnlyOnce(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "ORD-P5", 185000, 0)
	order := createTestOrder(t, db, 1, "ORD-TEST-0014", constants.OrderStatusPending, []models.OrderItem{
		{ProductID: product.ID, ProductName: product.Name, Quantity: 3, Price: product.Price},
	})

	if _, err := svc.RequestCancelByUser(order.ID, 1); err != nil {
		t.Fatalf("request cancel failed: %v", err)
	}
	if _, err := svc.AcceptCancelByAdmin(order.ID); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	// 第二次确认必须失败且不再回补
	if _, err := svc.AcceptCancelByAdmin(order.ID); !errors.Is(err, ErrCancelNotRequested) {
		t.Fatalf("second accept want ErrCancelNotRequested got %v", err)
	}
	if stock := reloadProductStock(t, db, product.ID); stock != 3 {
		t.Fatalf("stock want 3 after single restock, got %d", stock)
	}
}

func TestOrderConfirmDone(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0008", constants.OrderStatusShipping, nil)

	done, err := svc.ConfirmDone(order.ID, 1)
	if err != nil {
		t.Fatalf("confirm done failed: %v", err)
	}
	if done.Status != constants.OrderStatusDone {
		t.Fatalf("status want done got %s", done.Status)
	}
	if reloaded := reloadOrder(t, db, order.ID); reloaded.Status != constants.OrderStatusDone {
		t.Fatalf("persisted status want done got %s", reloaded.Status)
	}
}

func TestOrderConfirmDoneRejectsPending(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0009", constants.OrderStatusPending, nil)

	if _, err := svc.ConfirmDone(order.ID, 1); !errors.Is(err, ErrOrderTransitionInvalid) {
		t.Fatalf("pending confirm-done want ErrOrderTransitionInvalid got %v", err)
	}
}

func TestOrderOwnershipChecked(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0010", constants.OrderStatusPending, nil)

	if _, err := svc.GetOrderByUser(order.ID, 99); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign user fetch want ErrOrderNotFound got %v", err)
	}
}

func TestOrderLegacyHistoryNormalized(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	order := createTestOrder(t, db, 1, "ORD-TEST-0011", "history", nil)

	fetched, err := svc.GetOrderByUser(order.ID, 1)
	if err != nil {
		t.Fatalf("fetch legacy order failed: %v", err)
	}
	if fetched.Status != constants.OrderStatusCancelled {
		t.Fatalf("legacy history should read as cancelled, got %s", fetched.Status)
	}
}

func TestOrderCancelSkipsDeletedProductRestock(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	kept := createTestProduct(t, db, "ORD-P3", 185000, 1)
	dropped := createTestProduct(t, db, "ORD-P4", 95000, 0)
	order := createTestOrder(t, db, 1, "ORD-TEST-0012", constants.OrderStatusPending, []models.OrderItem{
		{ProductID: kept.ID, ProductName: kept.Name, Quantity: 2, Price: kept.Price},
		{ProductID: dropped.ID, ProductName: dropped.Name, Quantity: 1, Price: dropped.Price},
	})
	if err := db.Delete(&models.Product{}, dropped.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	if _, err := svc.RequestCancelByUser(order.ID, 1); err != nil {
		t.Fatalf("request cancel failed: %v", err)
	}
	if _, err := svc.AcceptCancelByAdmin(order.ID); err != nil {
		t.Fatalf("accept cancel failed: %v", err)
	}

	if stock := reloadProductStock(t, db, kept.ID); stock != 3 {
		t.Fatalf("kept product stock want 3 got %d", stock)
	}
}
