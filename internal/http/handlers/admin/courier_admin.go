package admin

import (
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CourierRequest 配送方式请求
type CourierRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Cost     string `json:"cost" binding:"required"`
	IsActive bool   `json:"is_active"`
}

func (r CourierRequest) toInput() (service.CourierInput, error) {
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil {
		return service.CourierInput{}, err
	}
	return service.CourierInput{
		Code:     r.Code,
		Name:     r.Name,
		Cost:     models.NewMoneyFromDecimal(cost),
		IsActive: r.IsActive,
	}, nil
}

// ListCouriers 后台配送方式列表
func (h *Handler) ListCouriers(c *gin.Context) {
	couriers, err := h.CourierService.ListAdmin()
	if err != nil {
		respondError(c, response.CodeInternal, "courier list failed", err)
		return
	}
	response.Success(c, gin.H{"items": couriers})
}

// CreateCourier 创建配送方式
func (h *Handler) CreateCourier(c *gin.Context) {
	var req CourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid cost", err)
		return
	}

	courier, err := h.CourierService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, adminCourierErrorRules, response.CodeInternal, "courier create failed")
		return
	}
	response.Success(c, gin.H{"courier": courier})
}

// UpdateCourier 更新配送方式
func (h *Handler) UpdateCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid courier id")
	if !ok {
		return
	}
	var req CourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid cost", err)
		return
	}

	courier, err := h.CourierService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, adminCourierErrorRules, response.CodeInternal, "courier update failed")
		return
	}
	response.Success(c, gin.H{"courier": courier})
}

// DeleteCourier 删除配送方式
func (h *Handler) DeleteCourier(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid courier id")
	if !ok {
		return
	}

	if err := h.CourierService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminCourierErrorRules, response.CodeInternal, "courier delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
