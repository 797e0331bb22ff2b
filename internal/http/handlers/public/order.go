package public

import (
	"strconv"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyOrders 当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    uid,
		Status:    c.Query("status"),
		OrderCode: c.Query("order_code"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetMyOrder 当前用户订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// RequestCancelOrder 用户发起取消申请
func (h *Handler) RequestCancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.RequestCancelByUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "cancel request failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// AcceptCancelOrder 用户同意管理员发起的取消申请
func (h *Handler) AcceptCancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.AcceptCancelByUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "cancel accept failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// ConfirmOrderDone 用户确认收货
func (h *Handler) ConfirmOrderDone(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.ConfirmDone(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "confirm done failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return 0, false
	}
	return uint(id), true
}
