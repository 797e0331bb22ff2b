package service

import (
	"errors"
	"fmt"
)

// 商品与库存
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductCodeExists   = errors.New("product code already exists")
	ErrProductOutOfStock   = errors.New("product out of stock")
	ErrStockInsufficient   = errors.New("stock insufficient")
)

// 购物车
var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrQuantityInvalid  = errors.New("quantity invalid")
)

// 订单
var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderFetchFailed       = errors.New("order fetch failed")
	ErrOrderUpdateFailed      = errors.New("order update failed")
	ErrOrderTransitionInvalid = errors.New("order status transition not allowed")
	ErrCancelAlreadyRequested = errors.New("cancel already requested by the other side")
	ErrCancelNotRequested     = errors.New("no matching cancel request")
	ErrCancelNeedsHandshake   = errors.New("direct cancel requires a user cancel request")
)

// 结算与支付
var (
	ErrAmountInvalid        = errors.New("checkout amount invalid")
	ErrPaymentNotConfigured = errors.New("payment gateway not configured")
	ErrPaymentNotConfirmed  = errors.New("payment not confirmed")
	ErrGatewayRequestFailed = errors.New("payment gateway request failed")
)

// 用户与认证
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrUserDisabled       = errors.New("user disabled")
	ErrPasswordTooWeak    = errors.New("password too weak")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
)

// 邮箱验证码与邮件发送
var (
	ErrVerifyCodeInvalid         = errors.New("verify code invalid")
	ErrVerifyCodeExpired         = errors.New("verify code expired")
	ErrVerifyCodeTooFrequent     = errors.New("verify code requested too frequently")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)

// 地址、配送与评价
var (
	ErrAddressNotFound   = errors.New("address not found")
	ErrCourierNotFound   = errors.New("courier not found")
	ErrCourierCodeExists = errors.New("courier code already exists")
	ErrReviewNotFound    = errors.New("review not found")
	ErrRatingInvalid     = errors.New("rating invalid")
)

// StockShortageError 库存不足错误，携带当前可售余量。
// errors.Is(err, ErrStockInsufficient) 成立。
type StockShortageError struct {
	ProductID uint
	Requested int
	Available int
}

// Error 实现 error 接口
func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insufficient for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// Unwrap 支持 errors.Is 匹配哨兵错误
func (e *StockShortageError) Unwrap() error {
	return ErrStockInsufficient
}
