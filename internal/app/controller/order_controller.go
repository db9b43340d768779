package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type PlaceOrderRequest struct {
	CartID string `json:"cart_id" binding:"required,uuid"`
}

type UpdatePaymentRequest struct {
	PaymentStatus model.PaymentStatus `json:"payment_status" binding:"required"`
}

// PlaceOrder converts the caller's cart into an order
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order placement request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{
			"cart_id": "A valid cart ID is required.",
		})
		return
	}

	order, err := ctrl.orderService.PlaceOrder(userID, req.CartID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.RespondWithValidationError(c, map[string]string{
				"cart_id": "No cart with the given ID was found.",
			})
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.RespondWithValidationError(c, map[string]string{
				"cart_id": "The cart is empty.",
			})
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.RespondWithValidationError(c, map[string]string{
				"product_id": "A product in the cart no longer exists.",
			})
		case errors.Is(err, service.ErrCustomerNotFound):
			apperrors.BadRequest(c, apperrors.OrderCustomerNotFound, "No customer profile exists for this account")
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
				"cart_id": req.CartID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
		"total": order.Total(),
	})
}

// ListOrders returns the caller's orders
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order, visible to its owner or an admin
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"total": order.Total(),
	})
}

// UpdatePayment updates an order's payment status (admin)
// PUT /api/v1/orders/:id/payment
func (ctrl *OrderController) UpdatePayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment status data")
		return
	}

	if err := ctrl.orderService.UpdatePaymentStatus(orderID, req.PaymentStatus); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown payment status")
		default:
			log.Error("Failed to update payment status", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment status updated",
	})
}
