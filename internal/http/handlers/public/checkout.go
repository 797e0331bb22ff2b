package public

import (
	"github.com/diecast-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ConfirmCheckoutRequest 支付确认请求
type ConfirmCheckoutRequest struct {
	TransactionStatus string `json:"transaction_status" binding:"required"`
	PaymentRef        string `json:"payment_ref" binding:"required"`
}

// InitiateCheckout 发起结算，返回收银台 token。
func (h *Handler) InitiateCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	result, err := h.CheckoutService.Initiate(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, result)
}

// ConfirmCheckout 支付确认后落单并清空购物车。
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.CheckoutService.Confirm(uid, req.TransactionStatus, req.PaymentRef)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout confirm failed")
		return
	}
	response.Success(c, gin.H{"order": order})
}
