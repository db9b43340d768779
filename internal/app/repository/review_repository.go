package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview creates a review
func (r *ReviewRepository) CreateReview(review *model.Review) error {
	return r.db.Create(review).Error
}

// GetReviewByID returns a review by ID
func (r *ReviewRepository) GetReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewsByProductID lists the reviews of a product, newest first
func (r *ReviewRepository) GetReviewsByProductID(productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Order("date DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes a review
func (r *ReviewRepository) DeleteReview(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}
