package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/events"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerNotFound     = errors.New("customer profile not found")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

type OrderService interface {
	PlaceOrder(userID uint, cartID string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetCustomerOrders(customerID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error)
	UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error
}

type orderService struct {
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	customerRepo *repository.CustomerRepository
	bus          *events.Bus
	db           *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	customerRepo *repository.CustomerRepository,
	bus *events.Bus,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		customerRepo: customerRepo,
		bus:          bus,
		db:           db,
	}
}

// PlaceOrder converts a cart into an order. Preconditions are checked
// before any mutation; the conversion itself runs in one transaction so a
// failure leaves no order, no order items, and the cart untouched. Unit
// prices are snapshotted into the order lines at this moment.
func (s *orderService) PlaceOrder(userID uint, cartID string) (*model.Order, error) {
	logger.Info("Placing order from cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cartID,
	})

	customer, err := s.customerRepo.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot place order: no customer profile", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCustomerNotFound
		}
		logger.Error("Failed to resolve customer for order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart, err := s.cartRepo.FindCartByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot place order: cart not found", map[string]interface{}{
				"user_id": userID,
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart for order placement", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	if len(cart.Items) == 0 {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
				"cart_id": cartID,
			})
		}
	}()

	order := &model.Order{
		CustomerID:    customer.ID,
		PaymentStatus: model.PaymentStatusPending,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, err
	}

	orderItems := make([]model.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product disappeared during order placement", map[string]interface{}{
					"cart_id":    cartID,
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order placement", err, map[string]interface{}{
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		orderItems = append(orderItems, model.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			UnitPrice: product.UnitPrice,
			Quantity:  cartItem.Quantity,
		})
	}

	if err := tx.Create(&orderItems).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order items", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	if err := tx.Delete(&model.Cart{}, "id = ?", cartID).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to delete cart after order placement", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	placed, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id":    placed.ID,
		"customer_id": placed.CustomerID,
		"item_count":  len(placed.Items),
		"total":       placed.Total(),
	})

	// Fire-and-forget: a failing subscriber never fails a placed order.
	if s.bus != nil {
		s.bus.PublishOrderCreated(events.OrderCreated{Order: placed})
	}

	return placed, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	customer, err := s.customerRepo.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No profile yet means no orders yet.
			return []model.Order{}, nil
		}
		logger.Error("Failed to resolve customer for order listing", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	orders, err := s.orderRepo.FindByCustomerID(customer.ID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetCustomerOrders(customerID uint) ([]model.Order, error) {
	return s.orderRepo.FindByCustomerID(customerID)
}

func (s *orderService) GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error) {
	logger.Debug("Fetching order by ID", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if isAdmin {
		return order, nil
	}

	customer, err := s.customerRepo.GetCustomerByUserID(userID)
	if err != nil || order.CustomerID != customer.ID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(orderID uint, status model.PaymentStatus) error {
	if !status.Valid() {
		return ErrInvalidPaymentStatus
	}

	logger.Info("Updating payment status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if err := s.orderRepo.UpdatePaymentStatus(orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update payment status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}
	return nil
}
