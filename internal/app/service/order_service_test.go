package service

import (
	"errors"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *gorm.DB, *model.User, *model.Customer, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	orderService := NewOrderService(orderRepo, cartRepo, customerRepo, nil, testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Test Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	customer := &model.Customer{
		UserID:     user.ID,
		Membership: model.MembershipBronze,
	}
	testDB.Create(customer)

	product := &model.Product{
		Title:     "Test Product",
		Slug:      "test-product",
		UnitPrice: 10,
		Inventory: 100,
	}
	testDB.Create(product)

	return orderService, cartService, testDB, user, customer, product
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	orderService, cartService, testDB, user, customer, product := setupOrderServiceTest(t)

	second := &model.Product{
		Title:     "Second Product",
		Slug:      "second-product",
		UnitPrice: 5,
		Inventory: 100,
	}
	testDB.Create(second)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, second.ID, 3)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, float64(25), order.Total())

	// The cart is consumed by placement.
	_, err = cartService.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	var itemCount int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, itemCount)
}

func TestOrderService_PlaceOrder_SnapshotsUnitPrice(t *testing.T) {
	orderService, cartService, testDB, user, _, product := setupOrderServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, float64(10), order.Items[0].UnitPrice)

	// Raising the price later must not touch the placed order.
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("unit_price", 99)

	reloaded, err := orderService.GetOrderByID(user.ID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, float64(10), reloaded.Items[0].UnitPrice)
	assert.Equal(t, float64(20), reloaded.Total())
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	orderService, cartService, testDB, user, _, _ := setupOrderServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)

	// The cart survives a rejected placement.
	var count int64
	testDB.Model(&model.Cart{}).Where("id = ?", cart.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOrderService_PlaceOrder_CartNotFound(t *testing.T) {
	orderService, _, _, user, _, _ := setupOrderServiceTest(t)

	order, err := orderService.PlaceOrder(user.ID, "11111111-2222-3333-4444-555555555555")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_ProductVanished(t *testing.T) {
	orderService, cartService, testDB, user, _, product := setupOrderServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)

	// Soft-delete the product row behind the cart line, bypassing the
	// cascade a normal product delete would apply.
	require.NoError(t, testDB.Exec(
		"UPDATE products SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", product.ID,
	).Error)

	_, err = orderService.PlaceOrder(user.ID, cart.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	// The whole placement rolls back: no order, cart untouched.
	var orderCount int64
	testDB.Model(&model.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)

	var itemCount int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestOrderService_PlaceOrder_NoCustomerProfile(t *testing.T) {
	orderService, cartService, testDB, _, _, product := setupOrderServiceTest(t)

	stranger := &model.User{
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		Name:         "No Profile",
		Role:         model.RoleUser,
	}
	testDB.Create(stranger)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(stranger.ID, cart.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Nil(t, order)

	// No mutation happened: the cart still holds its item.
	reloaded, err := cartService.GetCart(cart.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)
}

func TestOrderService_PlaceOrder_PublishesEvent(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)

	bus := events.NewBus()
	received := make(chan events.OrderCreated, 1)
	bus.SubscribeOrderCreated(func(evt events.OrderCreated) {
		received <- evt
	})

	orderService := NewOrderService(orderRepo, cartRepo, customerRepo, bus, testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{Email: "evt@example.com", PasswordHash: "hash", Name: "Evt", Role: model.RoleUser}
	testDB.Create(user)
	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)
	product := &model.Product{Title: "Evt Product", Slug: "evt-product", UnitPrice: 7, Inventory: 5}
	testDB.Create(product)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)

	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	require.NoError(t, err)

	evt := <-received
	assert.Equal(t, order.ID, evt.Order.ID)
	assert.Equal(t, float64(14), evt.Order.Total())
}

func TestOrderService_GetUserOrders_NoProfile(t *testing.T) {
	orderService, _, testDB, _, _, _ := setupOrderServiceTest(t)

	stranger := &model.User{
		Email:        "noprofile@example.com",
		PasswordHash: "hash",
		Name:         "No Profile",
		Role:         model.RoleUser,
	}
	testDB.Create(stranger)

	orders, err := orderService.GetUserOrders(stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	orderService, cartService, testDB, user, _, product := setupOrderServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	require.NoError(t, err)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)
	testDB.Create(&model.Customer{UserID: other.ID})

	// Owner sees it.
	found, err := orderService.GetOrderByID(user.ID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// A different customer gets not-found, not forbidden.
	_, err = orderService.GetOrderByID(other.ID, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Admin sees everything.
	found, err = orderService.GetOrderByID(other.ID, order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	orderService, cartService, _, user, _, product := setupOrderServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)
	order, err := orderService.PlaceOrder(user.ID, cart.ID)
	require.NoError(t, err)

	err = orderService.UpdatePaymentStatus(order.ID, model.PaymentStatusComplete)
	require.NoError(t, err)

	updated, err := orderService.GetOrderByID(user.ID, order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusComplete, updated.PaymentStatus)
}

func TestOrderService_UpdatePaymentStatus_Invalid(t *testing.T) {
	orderService, _, _, _, _, _ := setupOrderServiceTest(t)

	err := orderService.UpdatePaymentStatus(1, model.PaymentStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestOrderService_UpdatePaymentStatus_NotFound(t *testing.T) {
	orderService, _, _, _, _, _ := setupOrderServiceTest(t)

	err := orderService.UpdatePaymentStatus(9999, model.PaymentStatusFailed)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
