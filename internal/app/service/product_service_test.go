package service

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB, *model.Collection) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	collectionRepo := repository.NewCollectionRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	productService := NewProductService(productRepo, collectionRepo, orderRepo)

	collection := &model.Collection{Title: "Rings"}
	testDB.Create(collection)

	return productService, testDB, collection
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _, collection := setupProductServiceTest(t)

	product := &model.Product{
		Title:        "Gold Ring",
		Slug:         "gold-ring",
		UnitPrice:    10,
		Inventory:    3,
		CollectionID: &collection.ID,
	}
	err := productService.CreateProduct(product)
	require.NoError(t, err)
	assert.NotZero(t, product.ID)

	found, err := productService.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", found.Title)
	assert.Equal(t, float64(12), found.PriceWithTax)
	require.NotNil(t, found.Collection)
	assert.Equal(t, "Rings", found.Collection.Title)
}

func TestProductService_CreateProduct_InvalidUnitPrice(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	err := productService.CreateProduct(&model.Product{
		Title:     "Free Ring",
		Slug:      "free-ring",
		UnitPrice: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestProductService_CreateProduct_UnknownCollection(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	missing := uint(9999)
	err := productService.CreateProduct(&model.Product{
		Title:        "Orphan",
		Slug:         "orphan",
		UnitPrice:    5,
		CollectionID: &missing,
	})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestProductService_ListProducts_FilterAndSort(t *testing.T) {
	productService, testDB, collection := setupProductServiceTest(t)

	other := &model.Collection{Title: "Necklaces"}
	testDB.Create(other)

	testDB.Create(&model.Product{Title: "Cheap Ring", Slug: "cheap-ring", UnitPrice: 5, CollectionID: &collection.ID})
	testDB.Create(&model.Product{Title: "Pricey Ring", Slug: "pricey-ring", UnitPrice: 50, CollectionID: &collection.ID})
	testDB.Create(&model.Product{Title: "Plain Necklace", Slug: "plain-necklace", UnitPrice: 20, CollectionID: &other.ID})

	products, total, err := productService.ListProducts(repository.ProductFilter{
		CollectionID: &collection.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	products, _, err = productService.ListProducts(repository.ProductFilter{
		SortBy:        repository.ProductSortUnitPrice,
		SortAscending: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Cheap Ring", products[0].Title)
	assert.Equal(t, "Pricey Ring", products[2].Title)

	products, total, err = productService.ListProducts(repository.ProductFilter{
		Search: "Necklace",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Plain Necklace", products[0].Title)
}

func TestProductService_ListProducts_Pagination(t *testing.T) {
	productService, testDB, _ := setupProductServiceTest(t)

	for _, slug := range []string{"p-one", "p-two", "p-three"} {
		testDB.Create(&model.Product{Title: slug, Slug: slug, UnitPrice: 1})
	}

	products, total, err := productService.ListProducts(repository.ProductFilter{
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 1)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	err := productService.UpdateProduct(&model.Product{
		ID:        9999,
		Title:     "Ghost",
		Slug:      "ghost",
		UnitPrice: 5,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_CascadesReviews(t *testing.T) {
	productService, testDB, _ := setupProductServiceTest(t)

	product := &model.Product{Title: "Reviewed", Slug: "reviewed", UnitPrice: 5}
	testDB.Create(product)
	testDB.Create(&model.Review{ProductID: product.ID, Name: "A", Description: "Nice"})
	testDB.Create(&model.Review{ProductID: product.ID, Name: "B", Description: "Bad"})

	err := productService.DeleteProduct(product.ID)
	require.NoError(t, err)

	_, err = productService.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	var reviewCount int64
	testDB.Model(&model.Review{}).Where("product_id = ?", product.ID).Count(&reviewCount)
	assert.Zero(t, reviewCount)
}

func TestProductService_DeleteProduct_BlockedByOrderItem(t *testing.T) {
	productService, testDB, _ := setupProductServiceTest(t)

	product := &model.Product{Title: "Ordered", Slug: "ordered", UnitPrice: 5}
	testDB.Create(product)

	user := &model.User{Email: "d@example.com", PasswordHash: "hash", Name: "D", Role: model.RoleUser}
	testDB.Create(user)
	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)
	order := &model.Order{CustomerID: customer.ID, PaymentStatus: model.PaymentStatusPending}
	testDB.Create(order)
	testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: product.ID, UnitPrice: 5, Quantity: 1})

	err := productService.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductInOrder)

	// Still there.
	_, err = productService.GetProduct(product.ID)
	assert.NoError(t, err)
}
