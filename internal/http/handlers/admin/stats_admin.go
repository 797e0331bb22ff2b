package admin

import (
	"github.com/diecast-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStatsSummary 后台看板汇总
func (h *Handler) GetStatsSummary(c *gin.Context) {
	summary, err := h.StatsService.Summary()
	if err != nil {
		respondError(c, response.CodeInternal, "stats fetch failed", err)
		return
	}
	response.Success(c, gin.H{"summary": summary})
}
