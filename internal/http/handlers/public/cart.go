package public

import (
	"errors"
	"strconv"

	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 修改购物车数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// respondCartError 购物车错误响应，库存不足时附带当前余量。
func respondCartError(c *gin.Context, err error) {
	var shortage *service.StockShortageError
	if errors.As(err, &shortage) {
		response.ErrorWithData(c, response.CodeConflict, "stock insufficient", gin.H{
			"product_id": shortage.ProductID,
			"requested":  shortage.Requested,
			"available":  shortage.Available,
		})
		return
	}
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart operation failed")
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddCartItem 加入购物车（预占库存）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.CartService.AddItem(uid, req.ProductID, req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// UpdateCartItem 修改购物车数量（差量预占/释放库存）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid cart item id", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.CartService.SetItemQuantity(uid, uint(id), req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// RemoveCartItem 移除购物车项并回补库存
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid cart item id", nil)
		return
	}

	if err := h.CartService.RemoveItem(uid, uint(id)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}
