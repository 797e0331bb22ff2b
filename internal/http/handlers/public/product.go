package public

import (
	"strconv"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductSummary 前台商品摘要
type ProductSummary struct {
	ID          uint         `json:"id"`
	ProductCode string       `json:"product_code"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	Limited     bool         `json:"limited"`
	Image       string       `json:"image"`
}

func buildProductSummary(p models.Product) ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		ProductCode: p.ProductCode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Limited:     p.Limited,
		Image:       p.Image,
	}
}

// ListProducts 前台商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var limited *bool
	if raw := c.Query("limited"); raw != "" {
		v := raw == "true" || raw == "1"
		limited = &v
	}

	products, total, err := h.ProductService.ListPublic(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Limited:  limited,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}

	items := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		items = append(items, buildProductSummary(p))
	}
	response.SuccessWithPage(c, gin.H{"items": items}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProduct 前台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	product, err := h.ProductService.GetPublicByID(uint(id))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, gin.H{"product": buildProductSummary(*product)})
}
