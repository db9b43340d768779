package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

// Cart endpoints are public: the UUID token in the path is the credential.
type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CreateCart issues a new cart token
// POST /api/v1/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cart, err := ctrl.cartService.CreateCart()
	if err != nil {
		log.Error("Failed to create cart", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cart": cart,
	})
}

// GetCart returns the cart with its items and live total
// GET /api/v1/carts/:id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("cart_id")

	cart, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	// Live total at current product prices, never snapshotted.
	var total float64
	for _, item := range cart.Items {
		total += item.TotalPrice()
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
		"total": total,
	})
}

// DeleteCart discards a cart and its items
// DELETE /api/v1/carts/:id
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	cartID := c.Param("cart_id")

	if err := ctrl.cartService.DeleteCart(cartID); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListItems returns the cart's line items
// GET /api/v1/carts/:id/items
func (ctrl *CartController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("cart_id")

	cart, err := ctrl.cartService.GetCart(cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": cart.Items,
		"count": len(cart.Items),
	})
}

// AddItem puts a product into the cart, accumulating quantity for a
// product the cart already holds
// POST /api/v1/carts/:id/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("cart_id")

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"cart_id": cartID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid cart item data")
		return
	}

	item, err := ctrl.cartService.AddItem(cartID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.RespondWithValidationError(c, map[string]string{
				"product_id": "No product with the given ID was found.",
			})
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.RespondWithValidationError(c, map[string]string{
				"quantity": "Quantity must be greater than zero.",
			})
		default:
			log.Error("Failed to add cart item", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateItem overwrites a line's quantity
// PATCH /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	cartID := c.Param("cart_id")

	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{
			"quantity": "Quantity must be greater than zero.",
		})
		return
	}

	item, err := ctrl.cartService.UpdateItem(cartID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.RespondWithValidationError(c, map[string]string{
				"quantity": "Quantity must be greater than zero.",
			})
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"cart_id":      cartID,
				"cart_item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// RemoveItem deletes a line from the cart
// DELETE /api/v1/carts/:id/items/:item_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cartID := c.Param("cart_id")

	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(cartID, itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
