package public

import (
	"errors"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrProductOutOfStock, code: response.CodeConflict, msg: "product out of stock"},
	{target: service.ErrStockInsufficient, code: response.CodeConflict, msg: "stock insufficient"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "quantity invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrAmountInvalid, code: response.CodeBadRequest, msg: "checkout amount invalid"},
	{target: service.ErrPaymentNotConfigured, code: response.CodeInternal, msg: "payment gateway not configured"},
	{target: service.ErrPaymentNotConfirmed, code: response.CodeBadRequest, msg: "payment not confirmed"},
	{target: service.ErrGatewayRequestFailed, code: response.CodeInternal, msg: "payment gateway request failed"},
	{target: service.ErrUserNotFound, code: response.CodeUnauthorized, msg: "user not found"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeBadRequest, msg: "order status transition not allowed"},
	{target: service.ErrCancelAlreadyRequested, code: response.CodeConflict, msg: "cancel already requested"},
	{target: service.ErrCancelNotRequested, code: response.CodeBadRequest, msg: "no matching cancel request"},
	{target: service.ErrCancelNeedsHandshake, code: response.CodeBadRequest, msg: "direct cancel requires a user cancel request"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password too weak"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "captcha invalid"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid credentials"},
	{target: service.ErrEmailNotVerified, code: response.CodeForbidden, msg: "email not verified"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "user disabled"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "verify code invalid"},
	{target: service.ErrVerifyCodeExpired, code: response.CodeBadRequest, msg: "verify code expired"},
	{target: service.ErrVerifyCodeTooFrequent, code: response.CodeTooManyRequests, msg: "verify code requested too frequently"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeInternal, msg: "email service disabled"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, msg: "email service not configured"},
}
