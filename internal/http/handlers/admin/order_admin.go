package admin

import (
	"strconv"
	"time"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 后台订单列表（带用户名与商品件数汇总）
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		Status:    c.Query("status"),
		OrderCode: c.Query("order_code"),
	}
	if raw := c.Query("created_from"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.CreatedTo = &ts
		}
	}

	rows, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": rows}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetOrderItems 后台订单明细
func (h *Handler) GetOrderItems(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}

	items, err := h.OrderService.ListOrderItemsForAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "order items fetch failed")
		return
	}
	response.Success(c, gin.H{"items": items})
}

// UpdateOrderStatus 后台更新订单状态。
// 置为 cancelled 时要求存在用户侧取消申请，否则拒绝。
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.UpdateStatusByAdmin(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "order status update failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// RequestCancelOrder 管理员发起取消申请（等待用户确认）
func (h *Handler) RequestCancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}

	order, err := h.OrderService.RequestCancelByAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "cancel request failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// AcceptCancelOrder 管理员同意用户发起的取消申请
func (h *Handler) AcceptCancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}

	order, err := h.OrderService.AcceptCancelByAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, adminOrderErrorRules, response.CodeInternal, "cancel accept failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

func parseIDParam(c *gin.Context, invalidMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, invalidMsg, nil)
		return 0, false
	}
	return uint(id), true
}
