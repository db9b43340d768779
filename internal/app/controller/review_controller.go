package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type ReviewRequest struct {
	Name        string `json:"name"`
	Description string `json:"description" binding:"required"`
}

// ListReviews returns the reviews of a product
// GET /api/v1/products/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListReviews(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview adds a review to a product
// POST /api/v1/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	// Anonymous reviewers must name themselves; signed-in ones are
	// stamped with their account email when they don't.
	if req.Name == "" {
		email, ok := middleware.GetUserEmail(c)
		if !ok {
			apperrors.RespondWithValidationError(c, map[string]string{
				"name": "This field is required.",
			})
			return
		}
		req.Name = email
	}

	review, err := ctrl.reviewService.CreateReview(productID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}

// DeleteReview removes a review (admin)
// DELETE /api/v1/products/:id/reviews/:review_id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(productID, reviewID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
