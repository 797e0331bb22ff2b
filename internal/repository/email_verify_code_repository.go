package repository

import (
	"errors"
	"time"

	"github.com/diecast-shop/internal/models"

	"gorm.io/gorm"
)

// EmailVerifyCodeRepository 邮箱验证码数据访问接口
type EmailVerifyCodeRepository interface {
	Create(code *models.EmailVerifyCode) error
	GetLatest(email, purpose string) (*models.EmailVerifyCode, error)
	MarkVerified(id uint) error
	IncrementAttempt(id uint) error
	DeleteByEmailAndPurpose(email, purpose string) error
}

// GormEmailVerifyCodeRepository GORM 实现
type GormEmailVerifyCodeRepository struct {
	db *gorm.DB
}

// NewEmailVerifyCodeRepository 创建邮箱验证码仓库
func NewEmailVerifyCodeRepository(db *gorm.DB) *GormEmailVerifyCodeRepository {
	return &GormEmailVerifyCodeRepository{db: db}
}

// Create 创建验证码记录
func (r *GormEmailVerifyCodeRepository) Create(code *models.EmailVerifyCode) error {
	return r.db.Create(code).Error
}

// GetLatest 获取最近一条验证码记录
func (r *GormEmailVerifyCodeRepository) GetLatest(email, purpose string) (*models.EmailVerifyCode, error) {
	var code models.EmailVerifyCode
	if err := r.db.Where("email = ? AND purpose = ?", email, purpose).
		Order("id desc").First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// MarkVerified 标记验证通过
func (r *GormEmailVerifyCodeRepository) MarkVerified(id uint) error {
	now := time.Now()
	return r.db.Model(&models.EmailVerifyCode{}).Where("id = ?", id).Update("verified_at", now).Error
}

// IncrementAttempt 验证失败时累加尝试次数
func (r *GormEmailVerifyCodeRepository) IncrementAttempt(id uint) error {
	return r.db.Model(&models.EmailVerifyCode{}).Where("id = ?", id).
		Update("attempt_count", gorm.Expr("attempt_count + 1")).Error
}

// DeleteByEmailAndPurpose 删除同用途的历史验证码
func (r *GormEmailVerifyCodeRepository) DeleteByEmailAndPurpose(email, purpose string) error {
	return r.db.Where("email = ? AND purpose = ?", email, purpose).Delete(&models.EmailVerifyCode{}).Error
}
