package service

import (
	"strings"

	"github.com/diecast-shop/internal/constants"
)

// allowedTransitions 订单状态迁移表：pending → shipping/done，shipping → done，pending → cancelled。
// 管理员可从 pending 直接置 done（到店自提等不经配送的场景）；
// cancelled 仅能经由取消握手达成，done 与 cancelled 为终态。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusShipping:  true,
		constants.OrderStatusDone:      true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipping: {
		constants.OrderStatusDone: true,
	},
	constants.OrderStatusDone:      {},
	constants.OrderStatusCancelled: {},
}

// isTransitionAllowed 判断状态迁移是否合法
func isTransitionAllowed(current, target string) bool {
	current = normalizeOrderStatus(current)
	target = normalizeOrderStatus(target)
	if current == target {
		return false
	}
	targets, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return targets[target]
}

// isKnownOrderStatus 判断是否为合法状态值
func isKnownOrderStatus(status string) bool {
	_, ok := allowedTransitions[normalizeOrderStatus(status)]
	return ok
}

// normalizeOrderStatus 归一化状态值（旧数据 history 视为 cancelled）
func normalizeOrderStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == constants.OrderStatusLegacyHistory {
		return constants.OrderStatusCancelled
	}
	return status
}
