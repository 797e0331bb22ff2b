package worker

import (
	"testing"

	"github.com/diecast-shop/internal/models"
)

func TestBuildStatusEmailInputNilOrder(t *testing.T) {
	got := buildStatusEmailInput(nil, "shipping")
	if got.OrderCode != "" || got.Status != "" {
		t.Fatalf("expected zero input for nil order, got %+v", got)
	}
}

func TestBuildStatusEmailInputPayloadStatusWins(t *testing.T) {
	order := &models.Order{
		OrderCode:  "ORD-20260101120000-1234",
		Status:     "pending",
		TotalPrice: models.NewMoneyFromInt(150000),
	}

	got := buildStatusEmailInput(order, "  shipping  ")
	if got.Status != "shipping" {
		t.Fatalf("expected payload status to win, got %q", got.Status)
	}
	if got.OrderCode != order.OrderCode {
		t.Fatalf("unexpected order code %q", got.OrderCode)
	}
}

func TestBuildStatusEmailInputFallsBackToOrderStatus(t *testing.T) {
	order := &models.Order{
		OrderCode: "ORD-20260101120000-5678",
		Status:    "cancelled",
	}

	got := buildStatusEmailInput(order, "   ")
	if got.Status != "cancelled" {
		t.Fatalf("expected fallback to order status, got %q", got.Status)
	}
}
