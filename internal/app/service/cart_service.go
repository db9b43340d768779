package service

import (
	"errors"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
)

type CartService interface {
	CreateCart() (*model.Cart, error)
	GetCart(cartID string) (*model.Cart, error)
	DeleteCart(cartID string) error
	AddItem(cartID string, productID uint, quantity int) (*model.CartItem, error)
	UpdateItem(cartID string, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(cartID string, itemID uint) error
	PurgeAbandoned(olderThan time.Duration) (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) CreateCart() (*model.Cart, error) {
	cart := &model.Cart{}
	if err := s.cartRepo.CreateCart(cart); err != nil {
		logger.Error("Failed to create cart", err, nil)
		return nil, err
	}

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return cart, nil
}

func (s *cartService) GetCart(cartID string) (*model.Cart, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"cart_id": cartID,
	})

	cart, err := s.cartRepo.FindCartByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found", map[string]interface{}{
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return cart, nil
}

func (s *cartService) DeleteCart(cartID string) error {
	if _, err := s.cartRepo.FindCartByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}

	if err := s.cartRepo.DeleteCart(cartID); err != nil {
		logger.Error("Failed to delete cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	logger.Info("Cart deleted", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

// AddItem puts a product into the cart. Adding a product the cart already
// holds accumulates the quantity instead of creating a second line.
func (s *cartService) AddItem(cartID string, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		logger.Warn("Rejected cart add: invalid quantity", map[string]interface{}{
			"cart_id":  cartID,
			"quantity": quantity,
		})
		return nil, ErrInvalidQuantity
	}

	if _, err := s.cartRepo.FindCartByID(cartID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Rejected cart add: product not found", map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	item := &model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.UpsertItem(item); err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}

	// Re-read the line: on an accumulate the upsert does not report the
	// resulting quantity.
	saved, err := s.cartRepo.FindItemByCartAndProduct(cartID, productID)
	if err != nil {
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": saved.ID,
		"quantity":     saved.Quantity,
	})
	return saved, nil
}

// UpdateItem overwrites the line's quantity. Unlike AddItem it is not
// additive.
func (s *cartService) UpdateItem(cartID string, itemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.findItem(cartID, itemID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.UpdateItemQuantity(itemID, quantity); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return nil, err
	}

	return s.cartRepo.FindItemByID(cartID, itemID)
}

func (s *cartService) RemoveItem(cartID string, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
	})

	if _, err := s.findItem(cartID, itemID); err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		logger.Error("Failed to remove cart item", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

// PurgeAbandoned deletes carts older than the retention window. Invoked by
// the scheduler.
func (s *cartService) PurgeAbandoned(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	count, err := s.cartRepo.DeleteCartsBefore(cutoff)
	if err != nil {
		logger.Error("Failed to purge abandoned carts", err, nil)
		return 0, err
	}

	if count > 0 {
		logger.Info("Abandoned carts purged", map[string]interface{}{
			"count":  count,
			"cutoff": cutoff,
		})
	}
	return count, nil
}

func (s *cartService) findItem(cartID string, itemID uint) (*model.CartItem, error) {
	item, err := s.cartRepo.FindItemByID(cartID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_id":      cartID,
				"cart_item_id": itemID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}
