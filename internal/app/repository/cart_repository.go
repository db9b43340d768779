package repository

import (
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	CreateCart(cart *model.Cart) error
	FindCartByID(id string) (*model.Cart, error)
	DeleteCart(id string) error
	UpsertItem(item *model.CartItem) error
	FindItemByID(cartID string, itemID uint) (*model.CartItem, error)
	FindItemByCartAndProduct(cartID string, productID uint) (*model.CartItem, error)
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	DeleteCartsBefore(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, nil)
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

func (r *cartRepository) FindCartByID(id string) (*model.Cart, error) {
	logger.Debug("Finding cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.Cart
	err := r.db.Preload("Items.Product").First(&cart, "id = ?", id).Error
	if err != nil {
		logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart found by ID in database", map[string]interface{}{
		"cart_id":    cart.ID,
		"item_count": len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) DeleteCart(id string) error {
	logger.Debug("Deleting cart in database", map[string]interface{}{
		"cart_id": id,
	})

	if err := r.db.Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}
	if err := r.db.Delete(&model.Cart{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete cart in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}

	logger.Debug("Cart deleted in database", map[string]interface{}{
		"cart_id": id,
	})
	return nil
}

// UpsertItem inserts a cart line or, when the (cart, product) pair already
// exists, increments its quantity in a single statement. The atomic upsert
// keeps concurrent adds for the same product from losing updates.
func (r *cartRepository) UpsertItem(item *model.CartItem) error {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItemByID(cartID string, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").
		Where("cart_id = ?", cartID).
		First(&item, itemID).Error
	if err != nil {
		logger.Error("Failed to find cart item by ID in database", err, map[string]interface{}{
			"cart_id":      cartID,
			"cart_item_id": itemID,
		})
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByCartAndProduct(cartID string, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	logger.Debug("Updating cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	err := r.db.Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update cart item quantity in database", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(itemID uint) error {
	logger.Debug("Deleting cart item in database", map[string]interface{}{
		"cart_item_id": itemID,
	})

	if err := r.db.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item in database", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}
	return nil
}

// DeleteCartsBefore removes carts created before the cutoff together with
// their items, and reports how many carts were purged.
func (r *cartRepository) DeleteCartsBefore(cutoff time.Time) (int64, error) {
	stale := r.db.Model(&model.Cart{}).Select("id").Where("created_at < ?", cutoff)

	if err := r.db.Where("cart_id IN (?)", stale).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete stale cart items in database", err, nil)
		return 0, err
	}

	result := r.db.Where("created_at < ?", cutoff).Delete(&model.Cart{})
	if result.Error != nil {
		logger.Error("Failed to delete stale carts in database", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Stale carts deleted in database", map[string]interface{}{
		"count":  result.RowsAffected,
		"cutoff": cutoff,
	})
	return result.RowsAffected, nil
}
