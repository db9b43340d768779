package service

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewService := NewReviewService(reviewRepo, productRepo)

	product := &model.Product{Title: "Reviewable", Slug: "reviewable", UnitPrice: 9}
	testDB.Create(product)

	return reviewService, testDB, product
}

func TestReviewService_CreateAndList(t *testing.T) {
	reviewService, _, product := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(product.ID, "Alice", "Lovely piece")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, product.ID, review.ProductID)

	_, err = reviewService.CreateReview(product.ID, "Bob", "Arrived late")
	require.NoError(t, err)

	reviews, err := reviewService.ListReviews(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviewService_CreateReview_ProductNotFound(t *testing.T) {
	reviewService, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(9999, "Ghost", "No product")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_ListReviews_ProductNotFound(t *testing.T) {
	reviewService, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.ListReviews(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_DeleteReview(t *testing.T) {
	reviewService, _, product := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(product.ID, "Alice", "Lovely piece")
	require.NoError(t, err)

	err = reviewService.DeleteReview(product.ID, review.ID)
	require.NoError(t, err)

	reviews, err := reviewService.ListReviews(product.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewService_DeleteReview_ProductMismatch(t *testing.T) {
	reviewService, testDB, product := setupReviewServiceTest(t)

	other := &model.Product{Title: "Other", Slug: "other", UnitPrice: 3}
	testDB.Create(other)

	review, err := reviewService.CreateReview(product.ID, "Alice", "Lovely piece")
	require.NoError(t, err)

	// The review is only addressable under its own product.
	err = reviewService.DeleteReview(other.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
