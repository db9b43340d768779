package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CustomerController struct {
	customerService service.CustomerService
	orderService    service.OrderService
}

func NewCustomerController(customerService service.CustomerService, orderService service.OrderService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
		orderService:    orderService,
	}
}

type UpdateProfileRequest struct {
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership *string `json:"membership"`
}

// Me returns the caller's customer profile, creating one on first access
// GET /api/v1/customers/me
func (ctrl *CustomerController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	customer, err := ctrl.customerService.GetOrCreateByUserID(userID)
	if err != nil {
		log.Error("Failed to load customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// UpdateMe updates the caller's customer profile
// PUT /api/v1/customers/me
func (ctrl *CustomerController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	update := service.CustomerProfileUpdate{Phone: req.Phone}

	if req.BirthDate != nil {
		birthDate, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{
				"birth_date": "Date must be in YYYY-MM-DD format.",
			})
			return
		}
		update.BirthDate = &birthDate
	}

	if req.Membership != nil {
		membership := model.Membership(*req.Membership)
		if !membership.Valid() {
			apperrors.RespondWithValidationError(c, map[string]string{
				"membership": "Membership must be one of bronze, silver or gold.",
			})
			return
		}
		// Only admins may change membership tiers.
		if !middleware.IsAdmin(c) {
			apperrors.Forbidden(c, "")
			return
		}
		update.Membership = &membership
	}

	customer, err := ctrl.customerService.UpdateProfile(userID, update)
	if err != nil {
		log.Error("Failed to update customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
	})
}

// List returns all customer profiles (admin)
// GET /api/v1/customers
func (ctrl *CustomerController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	customers, err := ctrl.customerService.ListCustomers()
	if err != nil {
		log.Error("Failed to list customers", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"count":     len(customers),
	})
}

// History returns a customer's order history, visible to the profile
// owner or an admin
// GET /api/v1/customers/:id/history
func (ctrl *CustomerController) History(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.customerService.GetByID(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, apperrors.CustomerNotFound, "Customer not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	if customer.UserID != userID && !middleware.IsAdmin(c) {
		apperrors.Forbidden(c, "")
		return
	}

	orders, err := ctrl.orderService.GetCustomerOrders(customer.ID)
	if err != nil {
		log.Error("Failed to load order history", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
