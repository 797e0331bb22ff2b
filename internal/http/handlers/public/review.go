package public

import (
	"strconv"

	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitReviewRequest 提交评价请求
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrRatingInvalid, code: response.CodeBadRequest, msg: "rating invalid"},
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	reviews, err := h.ReviewService.ListByProduct(productID)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "review list failed")
		return
	}
	response.Success(c, gin.H{"items": reviews})
}

// SubmitReview 提交评价（重复提交覆盖更新）
func (h *Handler) SubmitReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	review, err := h.ReviewService.Submit(uid, productID, req.Rating, req.Comment)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "review submit failed")
		return
	}
	response.Success(c, gin.H{"review": review})
}

func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return 0, false
	}
	return uint(id), true
}
