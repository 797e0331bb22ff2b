package service

import (
	"strings"
	"time"

	"github.com/diecast-shop/internal/constants"
	"github.com/diecast-shop/internal/models"
	"github.com/diecast-shop/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// ListByProduct 商品评价列表
func (s *ReviewService) ListByProduct(productID uint) ([]models.Review, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.reviewRepo.ListByProduct(productID)
}

// Submit 提交评价，同一用户对同一商品只保留一条（重复提交覆盖更新）。
func (s *ReviewService) Submit(userID, productID uint, rating int, comment string) (*models.Review, error) {
	if rating < constants.ReviewRatingMin || rating > constants.ReviewRatingMax {
		return nil, ErrRatingInvalid
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing != nil {
		existing.Rating = rating
		existing.Comment = strings.TrimSpace(comment)
		existing.UpdatedAt = now
		if err := s.reviewRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}
