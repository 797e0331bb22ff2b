package service

import (
	"strings"
	"time"

	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"
)

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// ListByUser 当前用户地址列表（默认地址排最前）
func (s *AddressService) ListByUser(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// GetByUser 按 ID 获取当前用户地址
func (s *AddressService) GetByUser(userID, id uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// AddressInput 地址输入
type AddressInput struct {
	Label      string
	Recipient  string
	Phone      string
	Street     string
	City       string
	Province   string
	PostalCode string
	IsPrimary  bool
}

// Create 新增地址
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	now := time.Now()
	address := &models.Address{
		UserID:     userID,
		Label:      strings.TrimSpace(input.Label),
		Recipient:  strings.TrimSpace(input.Recipient),
		Phone:      strings.TrimSpace(input.Phone),
		Street:     strings.TrimSpace(input.Street),
		City:       strings.TrimSpace(input.City),
		Province:   strings.TrimSpace(input.Province),
		PostalCode: strings.TrimSpace(input.PostalCode),
		IsPrimary:  input.IsPrimary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	if address.IsPrimary {
		if err := s.addressRepo.SetPrimary(userID, address.ID); err != nil {
			return nil, err
		}
	}
	return address, nil
}

// Update 更新地址
func (s *AddressService) Update(userID, id uint, input AddressInput) (*models.Address, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	address.Label = strings.TrimSpace(input.Label)
	address.Recipient = strings.TrimSpace(input.Recipient)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Street = strings.TrimSpace(input.Street)
	address.City = strings.TrimSpace(input.City)
	address.Province = strings.TrimSpace(input.Province)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.UpdatedAt = time.Now()
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	if input.IsPrimary && !address.IsPrimary {
		if err := s.addressRepo.SetPrimary(userID, address.ID); err != nil {
			return nil, err
		}
		address.IsPrimary = true
	}
	return address, nil
}

// SetPrimary 设为默认地址
func (s *AddressService) SetPrimary(userID, id uint) error {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.SetPrimary(userID, id)
}

// Delete 删除地址
func (s *AddressService) Delete(userID, id uint) error {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.Delete(id)
}
