package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewService interface {
	ListReviews(productID uint) ([]model.Review, error)
	CreateReview(productID uint, name, description string) (*model.Review, error)
	DeleteReview(productID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  *repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) ListReviews(productID uint) ([]model.Review, error) {
	if err := s.checkProduct(productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetReviewsByProductID(productID)
}

func (s *reviewService) CreateReview(productID uint, name, description string) (*model.Review, error) {
	if err := s.checkProduct(productID); err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID:   productID,
		Name:        name,
		Description: description,
	}
	if err := s.reviewRepo.CreateReview(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})
	return review, nil
}

func (s *reviewService) DeleteReview(productID, reviewID uint) error {
	review, err := s.reviewRepo.GetReviewByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.ProductID != productID {
		return ErrReviewNotFound
	}

	if err := s.reviewRepo.DeleteReview(reviewID); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID,
		})
		return err
	}
	return nil
}

func (s *reviewService) checkProduct(productID uint) error {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
