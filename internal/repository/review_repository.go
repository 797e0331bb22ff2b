package repository

import (
	"errors"

	"github.com/diecast-shop/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	ListByProduct(productID uint) ([]models.Review, error)
	ListByUserAndProducts(userID uint, productIDs []uint) ([]models.Review, error)
	GetByIDAndUser(id, userID uint) (*models.Review, error)
	GetByUserAndProduct(userID, productID uint) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListByProduct 获取商品评价列表
func (r *GormReviewRepository) ListByProduct(productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Preload("User").Where("product_id = ?", productID).
		Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByUserAndProducts 批量获取用户对一组商品的评价
func (r *GormReviewRepository) ListByUserAndProducts(userID uint, productIDs []uint) ([]models.Review, error) {
	if len(productIDs) == 0 {
		return []models.Review{}, nil
	}
	var reviews []models.Review
	if err := r.db.Where("user_id = ? AND product_id IN ?", userID, productIDs).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetByIDAndUser 获取用户评价（归属校验）
func (r *GormReviewRepository) GetByIDAndUser(id, userID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByUserAndProduct 获取用户对某商品的评价
func (r *GormReviewRepository) GetByUserAndProduct(userID, productID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Update 更新评价
func (r *GormReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}
