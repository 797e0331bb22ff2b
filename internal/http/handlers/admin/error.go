package admin

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

var adminOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeBadRequest, msg: "order status transition not allowed"},
	{target: service.ErrCancelAlreadyRequested, code: response.CodeConflict, msg: "cancel already requested"},
	{target: service.ErrCancelNotRequested, code: response.CodeBadRequest, msg: "no matching cancel request"},
	{target: service.ErrCancelNeedsHandshake, code: response.CodeBadRequest, msg: "direct cancel requires a user cancel request"},
}

var adminProductErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductCodeExists, code: response.CodeConflict, msg: "product code already exists"},
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, msg: "quantity invalid"},
}

var adminUserErrorRules = []mappedHandlerError{
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password too weak"},
}

var adminCourierErrorRules = []mappedHandlerError{
	{target: service.ErrCourierNotFound, code: response.CodeNotFound, msg: "courier not found"},
	{target: service.ErrCourierCodeExists, code: response.CodeConflict, msg: "courier code already exists"},
}
