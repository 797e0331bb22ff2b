package service

import (
	"strings"
	"time"

	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"
)

// CourierService 配送方式服务
type CourierService struct {
	courierRepo repository.CourierRepository
}

// NewCourierService 创建配送方式服务
func NewCourierService(courierRepo repository.CourierRepository) *CourierService {
	return &CourierService{courierRepo: courierRepo}
}

// ListPublic 前台可选配送方式
func (s *CourierService) ListPublic() ([]models.Courier, error) {
	return s.courierRepo.List(true)
}

// ListAdmin 后台配送方式列表
func (s *CourierService) ListAdmin() ([]models.Courier, error) {
	return s.courierRepo.List(false)
}

// CourierInput 配送方式输入
type CourierInput struct {
	Code     string
	Name     string
	Cost     models.Money
	IsActive bool
}

// Create 创建配送方式
func (s *CourierService) Create(input CourierInput) (*models.Courier, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrCourierCodeExists
	}
	count, err := s.courierRepo.CountByCode(code, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCourierCodeExists
	}

	now := time.Now()
	courier := &models.Courier{
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		Cost:      input.Cost,
		IsActive:  input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.courierRepo.Create(courier); err != nil {
		return nil, err
	}
	return courier, nil
}

// Update 更新配送方式
func (s *CourierService) Update(id uint, input CourierInput) (*models.Courier, error) {
	courier, err := s.courierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if courier == nil {
		return nil, ErrCourierNotFound
	}

	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code != "" && code != courier.Code {
		count, err := s.courierRepo.CountByCode(code, &id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrCourierCodeExists
		}
		courier.Code = code
	}
	courier.Name = strings.TrimSpace(input.Name)
	courier.Cost = input.Cost
	courier.IsActive = input.IsActive
	courier.UpdatedAt = time.Now()
	if err := s.courierRepo.Update(courier); err != nil {
		return nil, err
	}
	return courier, nil
}

// Delete 删除配送方式
func (s *CourierService) Delete(id uint) error {
	courier, err := s.courierRepo.GetByID(id)
	if err != nil {
		return err
	}
	if courier == nil {
		return ErrCourierNotFound
	}
	return s.courierRepo.Delete(id)
}
