package repository

import (
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (OrderRepository, *gorm.DB, *model.Customer, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "repo@example.com", PasswordHash: "hash", Name: "Repo", Role: model.RoleUser}
	testDB.Create(user)
	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)
	product := &model.Product{Title: "Ordered", Slug: "ordered", UnitPrice: 8}
	testDB.Create(product)

	return NewOrderRepository(testDB), testDB, customer, product
}

func TestOrderRepository_FindByID_PreloadsItems(t *testing.T) {
	orderRepo, testDB, customer, product := setupOrderRepositoryTest(t)

	order := &model.Order{CustomerID: customer.ID, PaymentStatus: model.PaymentStatusPending}
	testDB.Create(order)
	testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: product.ID, UnitPrice: 8, Quantity: 2})

	found, err := orderRepo.FindByID(order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, product.ID, found.Items[0].Product.ID)
	assert.Equal(t, float64(16), found.Total())
}

func TestOrderRepository_FindByCustomerID_NewestFirst(t *testing.T) {
	orderRepo, testDB, customer, _ := setupOrderRepositoryTest(t)

	older := &model.Order{CustomerID: customer.ID}
	testDB.Create(older)
	newer := &model.Order{CustomerID: customer.ID}
	testDB.Create(newer)

	testDB.Model(&model.Order{}).Where("id = ?", older.ID).
		Update("placed_at", time.Now().Add(-time.Hour))

	orders, err := orderRepo.FindByCustomerID(customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestOrderRepository_UpdatePaymentStatus_MissingOrder(t *testing.T) {
	orderRepo, _, _, _ := setupOrderRepositoryTest(t)

	err := orderRepo.UpdatePaymentStatus(9999, model.PaymentStatusComplete)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_HasOrderItemsForProduct(t *testing.T) {
	orderRepo, testDB, customer, product := setupOrderRepositoryTest(t)

	has, err := orderRepo.HasOrderItemsForProduct(product.ID)
	require.NoError(t, err)
	assert.False(t, has)

	order := &model.Order{CustomerID: customer.ID}
	testDB.Create(order)
	testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: product.ID, UnitPrice: 8, Quantity: 1})

	has, err = orderRepo.HasOrderItemsForProduct(product.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
