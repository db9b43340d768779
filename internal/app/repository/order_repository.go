package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByCustomerID(customerID uint) ([]model.Order, error)
	UpdatePaymentStatus(id uint, status model.PaymentStatus) error
	HasOrderItemsForProduct(productID uint) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items.Product")
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"item_count":  len(order.Items),
	})
	return &order, nil
}

func (r *orderRepository) FindByCustomerID(customerID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
	})

	var orders []model.Order
	err := r.preloadOrder().
		Where("customer_id = ?", customerID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by customer ID in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, err
	}

	logger.Debug("Orders found by customer ID in database", map[string]interface{}{
		"customer_id": customerID,
		"count":       len(orders),
	})
	return orders, nil
}

func (r *orderRepository) UpdatePaymentStatus(id uint, status model.PaymentStatus) error {
	logger.Debug("Updating order payment status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("payment_status", status)
	if result.Error != nil {
		logger.Error("Failed to update order payment status in database", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOrderItemsForProduct reports whether any order line references the
// product. Soft-deleted orders still count: a placed order's snapshot must
// keep its product row.
func (r *orderRepository) HasOrderItemsForProduct(productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count order items for product in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return false, err
	}
	return count > 0, nil
}
