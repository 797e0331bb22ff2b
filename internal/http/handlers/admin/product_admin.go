package admin

import (
	"strconv"

	handlershared "github.com/diecast-shop/internal/http/handlers/shared"
	"github.com/diecast-shop/internal/http/response"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"
	"github.com/diecast-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	ProductCode string `json:"product_code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	CostPrice   string `json:"cost_price"`
	Stock       int    `json:"stock"`
	Limited     bool   `json:"limited"`
	Image       string `json:"image"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r ProductRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.ProductInput{}, err
	}
	input := service.ProductInput{
		ProductCode: r.ProductCode,
		Name:        r.Name,
		Description: r.Description,
		Price:       models.NewMoneyFromDecimal(price),
		Stock:       r.Stock,
		Limited:     r.Limited,
		Image:       r.Image,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
	if r.CostPrice != "" {
		cost, err := decimal.NewFromString(r.CostPrice)
		if err != nil {
			return service.ProductInput{}, err
		}
		costMoney := models.NewMoneyFromDecimal(cost)
		input.CostPrice = &costMoney
	}
	return input, nil
}

// ListProducts 后台商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListAdmin(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"items": products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProduct 后台商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid product id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid price", err)
		return
	}

	product, err := h.ProductService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "product create failed")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid product id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid price", err)
		return
	}

	product, err := h.ProductService.Update(id, input)
	if err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "product update failed")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid product id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, adminProductErrorRules, response.CodeInternal, "product delete failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
