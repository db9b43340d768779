package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (ProductRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewProductRepository(testDB), testDB
}

func TestProductRepository_FindWithFilter_Search(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	testDB.Create(&model.Product{Title: "Silver Chain", Slug: "silver-chain", UnitPrice: 10})
	testDB.Create(&model.Product{Title: "Gold Chain", Slug: "gold-chain", UnitPrice: 20, Description: "heavy"})
	testDB.Create(&model.Product{Title: "Pendant", Slug: "pendant", UnitPrice: 30, Description: "gold plated"})

	// Search matches title or description.
	products, total, err := productRepo.FindWithFilter(ProductFilter{Search: "Gold"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)
}

func TestProductRepository_FindWithFilter_SortByUnitPrice(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	testDB.Create(&model.Product{Title: "Mid", Slug: "mid", UnitPrice: 20})
	testDB.Create(&model.Product{Title: "Low", Slug: "low", UnitPrice: 10})
	testDB.Create(&model.Product{Title: "High", Slug: "high", UnitPrice: 30})

	products, _, err := productRepo.FindWithFilter(ProductFilter{
		SortBy:        ProductSortUnitPrice,
		SortAscending: true,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Low", products[0].Title)
	assert.Equal(t, "High", products[2].Title)

	products, _, err = productRepo.FindWithFilter(ProductFilter{
		SortBy: ProductSortUnitPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, "High", products[0].Title)
}

func TestProductRepository_FindWithFilter_TotalIgnoresPaging(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		testDB.Create(&model.Product{Title: slug, Slug: slug, UnitPrice: 1})
	}

	products, total, err := productRepo.FindWithFilter(ProductFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, products, 2)
}

func TestProductRepository_AfterFind_DerivesTaxedPrice(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	testDB.Create(&model.Product{Title: "Taxed", Slug: "taxed", UnitPrice: 10})

	products, _, err := productRepo.FindWithFilter(ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, float64(12), products[0].PriceWithTax)

	// The derived price is never written back.
	var columns []string
	require.NoError(t, testDB.Raw("SELECT name FROM pragma_table_info('products')").Scan(&columns).Error)
	assert.NotContains(t, columns, "price_with_tax")
}

func TestProductRepository_Delete_SoftDeletesAndCascadesReviews(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	product := &model.Product{Title: "Doomed", Slug: "doomed", UnitPrice: 1}
	testDB.Create(product)
	testDB.Create(&model.Review{ProductID: product.ID, Name: "R", Description: "text"})

	require.NoError(t, productRepo.Delete(product.ID))

	_, err := productRepo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Soft delete: the row survives with deleted_at set.
	var raw int64
	testDB.Unscoped().Model(&model.Product{}).Where("id = ?", product.ID).Count(&raw)
	assert.Equal(t, int64(1), raw)

	var reviews int64
	testDB.Model(&model.Review{}).Where("product_id = ?", product.ID).Count(&reviews)
	assert.Zero(t, reviews)
}

func TestProductRepository_Delete_RemovesCartLines(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	kept := &model.Product{Title: "Kept", Slug: "kept", UnitPrice: 2}
	doomed := &model.Product{Title: "Doomed", Slug: "doomed", UnitPrice: 1}
	testDB.Create(kept)
	testDB.Create(doomed)

	cart := &model.Cart{}
	testDB.Create(cart)
	testDB.Create(&model.CartItem{CartID: cart.ID, ProductID: kept.ID, Quantity: 1})
	testDB.Create(&model.CartItem{CartID: cart.ID, ProductID: doomed.ID, Quantity: 3})

	require.NoError(t, productRepo.Delete(doomed.ID))

	// Only the deleted product's line goes; the cart itself survives.
	var lines []model.CartItem
	testDB.Where("cart_id = ?", cart.ID).Find(&lines)
	require.Len(t, lines, 1)
	assert.Equal(t, kept.ID, lines[0].ProductID)
}

func TestProductRepository_CountByCollectionID(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	collection := &model.Collection{Title: "Counted"}
	testDB.Create(collection)
	testDB.Create(&model.Product{Title: "In", Slug: "in", UnitPrice: 1, CollectionID: &collection.ID})
	testDB.Create(&model.Product{Title: "Out", Slug: "out", UnitPrice: 1})

	count, err := productRepo.CountByCollectionID(collection.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	productRepo, testDB := setupProductRepositoryTest(t)

	products := []model.Product{
		{Title: "Bulk A", Slug: "bulk-a", UnitPrice: 1},
		{Title: "Bulk B", Slug: "bulk-b", UnitPrice: 2},
		{Title: "Bulk C", Slug: "bulk-c", UnitPrice: 3},
	}
	require.NoError(t, productRepo.BulkCreate(products, 2))

	var count int64
	testDB.Model(&model.Product{}).Count(&count)
	assert.Equal(t, int64(3), count)
}
