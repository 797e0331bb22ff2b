package service

import (
	"strings"
	"time"

	"github.com/diecast-shop/internal/config"
	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserAdminService 后台用户管理服务
type UserAdminService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAdminService 创建后台用户管理服务
func NewUserAdminService(cfg *config.Config, userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{cfg: cfg, userRepo: userRepo}
}

// List 用户列表
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetByID 用户详情
func (s *UserAdminService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// AdminUserInput 后台创建/更新用户输入
type AdminUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
	Status   string
}

// Create 后台创建用户（直接视为已验证邮箱）
func (s *UserAdminService) Create(input AdminUserInput) (*models.User, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &models.User{
		Email:           normalized,
		PasswordHash:    string(hash),
		Name:            strings.TrimSpace(input.Name),
		Role:            resolveRole(input.Role),
		Status:          resolveUserStatus(input.Status),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if user.Name == "" {
		user.Name = resolveNameFromEmail(normalized)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 后台更新用户资料
func (s *UserAdminService) Update(id uint, input AdminUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if strings.TrimSpace(input.Email) != "" {
		normalized, err := normalizeEmail(input.Email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			exist, err := s.userRepo.GetByEmail(normalized)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != id {
				return nil, ErrEmailExists
			}
			user.Email = normalized
		}
	}
	if strings.TrimSpace(input.Name) != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Role) != "" {
		user.Role = resolveRole(input.Role)
	}
	if strings.TrimSpace(input.Status) != "" {
		status := resolveUserStatus(input.Status)
		// 禁用时让已签发的 Token 立即失效
		if status != user.Status && status == constants.UserStatusDisabled {
			now := time.Now()
			user.TokenVersion++
			user.TokenInvalidBefore = &now
		}
		user.Status = status
	}
	if strings.TrimSpace(input.Password) != "" {
		if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户（软删除）
func (s *UserAdminService) Delete(id uint) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(id)
}

func resolveRole(role string) string {
	if strings.ToLower(strings.TrimSpace(role)) == constants.RoleAdmin {
		return constants.RoleAdmin
	}
	return constants.RoleUser
}

func resolveUserStatus(status string) string {
	if strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusDisabled {
		return constants.UserStatusDisabled
	}
	return constants.UserStatusActive
}
