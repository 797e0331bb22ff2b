package service

import (
	"testing"

	"github.com/diecast-shop/internal/constants"
)

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		name    string
		current string
		target  string
		want    bool
	}{
		{name: "pending to shipping", current: "pending", target: "shipping", want: true},
		{name: "pending to cancelled", current: "pending", target: "cancelled", want: true},
		{name: "shipping to done", current: "shipping", target: "done", want: true},
		{name: "pending straight to done", current: "pending", target: "done", want: true},
		{name: "shipping back to pending", current: "shipping", target: "pending", want: false},
		{name: "done is terminal", current: "done", target: "shipping", want: false},
		{name: "cancelled is terminal", current: "cancelled", target: "pending", want: false},
		{name: "same status", current: "pending", target: "pending", want: false},
		{name: "unknown status", current: "refunded", target: "done", want: false},
		{name: "legacy history treated as cancelled", current: "history", target: "pending", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isTransitionAllowed(tc.current, tc.target); got != tc.want {
				t.Fatalf("isTransitionAllowed(%q, %q) want %v got %v", tc.current, tc.target, tc.want, got)
			}
		})
	}
}

func TestNormalizeOrderStatus(t *testing.T) {
	if got := normalizeOrderStatus("history"); got != constants.OrderStatusCancelled {
		t.Fatalf("history should normalize to cancelled, got %s", got)
	}
	if got := normalizeOrderStatus("  Shipping "); got != constants.OrderStatusShipping {
		t.Fatalf("expected shipping, got %s", got)
	}
	if got := normalizeOrderStatus("done"); got != constants.OrderStatusDone {
		t.Fatalf("expected done, got %s", got)
	}
}

func TestIsKnownOrderStatus(t *testing.T) {
	for _, status := range []string{"pending", "shipping", "done", "cancelled", "history"} {
		if !isKnownOrderStatus(status) {
			t.Fatalf("expected %s to be known", status)
		}
	}
	if isKnownOrderStatus("refunded") {
		t.Fatalf("refunded should not be known")
	}
}
