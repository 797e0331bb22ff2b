package public

import (
	"github.com/diecast-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListCouriers 前台可选配送方式
func (h *Handler) ListCouriers(c *gin.Context) {
	couriers, err := h.CourierService.ListPublic()
	if err != nil {
		respondError(c, response.CodeInternal, "courier list failed", err)
		return
	}
	response.Success(c, gin.H{"items": couriers})
}
