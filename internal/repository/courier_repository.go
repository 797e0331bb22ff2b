package repository

import (
	"errors"

	"github.com/diecast-shop/internal/models"

	"gorm.io/gorm"
)

// CourierRepository 配送方式数据访问接口
type CourierRepository interface {
	List(onlyActive bool) ([]models.Courier, error)
	GetByID(id uint) (*models.Courier, error)
	Create(courier *models.Courier) error
	Update(courier *models.Courier) error
	Delete(id uint) error
	CountByCode(code string, excludeID *uint) (int64, error)
}

// GormCourierRepository GORM 实现
type GormCourierRepository struct {
	db *gorm.DB
}

// NewCourierRepository 创建配送方式仓库
func NewCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// List 配送方式列表
func (r *GormCourierRepository) List(onlyActive bool) ([]models.Courier, error) {
	query := r.db.Model(&models.Courier{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var couriers []models.Courier
	if err := query.Order("id asc").Find(&couriers).Error; err != nil {
		return nil, err
	}
	return couriers, nil
}

// GetByID 根据 ID 获取配送方式
func (r *GormCourierRepository) GetByID(id uint) (*models.Courier, error) {
	var courier models.Courier
	if err := r.db.First(&courier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &courier, nil
}

// Create 创建配送方式
func (r *GormCourierRepository) Create(courier *models.Courier) error {
	return r.db.Create(courier).Error
}

// Update 更新配送方式
func (r *GormCourierRepository) Update(courier *models.Courier) error {
	return r.db.Save(courier).Error
}

// Delete 删除配送方式
func (r *GormCourierRepository) Delete(id uint) error {
	return r.db.Delete(&models.Courier{}, id).Error
}

// CountByCode 统计配送编码数量（用于唯一性校验）
func (r *GormCourierRepository) CountByCode(code string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Courier{}).Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
