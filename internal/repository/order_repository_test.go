package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diecast-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderRepoTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createRepoOrder(t *testing.T, db *gorm.DB, code, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderCode:  code,
		UserID:     1,
		Status:     status,
		TotalPrice: models.NewMoneyFromInt(100000),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderUpdateStatusFromGuards(t *testing.T) {
	repo, gdb := setupOrderRepoTest(t)
	order := createRepoOrder(t, gdb, "ORD-REP-0001", "pending")

	// 两个并发取消方都读到了 pending，条件更新只放行第一个
	rows, err := repo.UpdateStatusFrom(order.ID, "pending", "cancelled", map[string]interface{}{
		"cancel_approved": true,
	})
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first update rows want 1 got %d", rows)
	}

	rows, err = repo.UpdateStatusFrom(order.ID, "pending", "cancelled", map[string]interface{}{
		"cancel_approved": true,
	})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("stale update rows want 0 got %d", rows)
	}

	got, err := repo.GetByID(order.ID)
	if err != nil || got == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != "cancelled" || !got.CancelApproved {
		t.Fatalf("unexpected order state: %+v", got)
	}
}

func TestOrderMarkCancelRequestedGuards(t *testing.T) {
	repo, gdb := setupOrderRepoTest(t)
	order := createRepoOrder(t, gdb, "ORD-REP-0002", "pending")
	now := time.Now()

	rows, err := repo.MarkCancelRequested(order.ID, "user", now)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first request rows want 1 got %d", rows)
	}

	// 在途申请占位后不再放行
	rows, err = repo.MarkCancelRequested(order.ID, "admin", now)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second request rows want 0 got %d", rows)
	}

	// 非 pending 订单不放行
	shipped := createRepoOrder(t, gdb, "ORD-REP-0003", "shipping")
	rows, err = repo.MarkCancelRequested(shipped.ID, "user", now)
	if err != nil {
		t.Fatalf("shipping request failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("shipping request rows want 0 got %d", rows)
	}
}
