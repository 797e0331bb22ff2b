package service

import (
	"strings"
	"time"

	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"
)

// ProductService 商品服务：前台目录查询与后台维护。
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ListPublic 前台商品列表（仅上架商品）
func (s *ProductService) ListPublic(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	filter.OnlyActive = true
	return s.productRepo.List(filter)
}

// GetPublicByID 前台商品详情
func (s *ProductService) GetPublicByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 后台商品列表（含下架商品）
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID 后台商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	ProductCode string
	Name        string
	Description string
	Price       models.Money
	CostPrice   *models.Money
	Stock       int
	Limited     bool
	Image       string
	IsActive    bool
	SortOrder   int
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	code := strings.TrimSpace(input.ProductCode)
	if code != "" {
		count, err := s.productRepo.CountByCode(code, nil)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrProductCodeExists
		}
	}
	if input.Stock < 0 {
		return nil, ErrQuantityInvalid
	}

	now := time.Now()
	product := &models.Product{
		ProductCode: code,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		CostPrice:   input.CostPrice,
		Stock:       input.Stock,
		Limited:     input.Limited,
		Image:       strings.TrimSpace(input.Image),
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	code := strings.TrimSpace(input.ProductCode)
	if code != "" && code != product.ProductCode {
		count, err := s.productRepo.CountByCode(code, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrProductCodeExists
		}
	}
	if input.Stock < 0 {
		return nil, ErrQuantityInvalid
	}

	product.ProductCode = code
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.CostPrice = input.CostPrice
	product.Stock = input.Stock
	product.Limited = input.Limited
	product.Image = strings.TrimSpace(input.Image)
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（软删除，已生成的订单快照不受影响）
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}
