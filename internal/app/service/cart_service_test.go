package service

import (
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	product := &model.Product{
		Title:     "Cart Product",
		Slug:      "cart-product",
		UnitPrice: 12.5,
		Inventory: 50,
	}
	testDB.Create(product)

	return cartService, testDB, product
}

func TestCartService_CreateCart_IssuesToken(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	assert.Len(t, cart.ID, 36)

	other, err := cartService.CreateCart()
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, other.ID)
}

func TestCartService_GetCart_NotFound(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)

	_, err := cartService.GetCart("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_AddItem_AccumulatesQuantity(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)

	item, err := cartService.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// A second add of the same product grows the existing line.
	item, err = cartService.AddItem(cart.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	reloaded, err := cartService.GetCart(cart.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, 5, reloaded.Items[0].Quantity)
	assert.Equal(t, 62.5, reloaded.Items[0].TotalPrice())
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)

	_, err = cartService.AddItem(cart.ID, product.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = cartService.AddItem(cart.ID, product.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)

	_, err = cartService.AddItem(cart.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_CartNotFound(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	_, err := cartService.AddItem("00000000-0000-0000-0000-000000000000", product.ID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_UpdateItem_Overwrites(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	item, err := cartService.AddItem(cart.ID, product.ID, 4)
	require.NoError(t, err)

	// Update replaces the quantity, it does not add to it.
	updated, err := cartService.UpdateItem(cart.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
}

func TestCartService_UpdateItem_ItemNotFound(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)

	_, err = cartService.UpdateItem(cart.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateItem_WrongCart(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	item, err := cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	// A line is only addressable through its own cart token.
	other, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.UpdateItem(other.ID, item.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, _, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	item, err := cartService.AddItem(cart.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.RemoveItem(cart.ID, item.ID)
	require.NoError(t, err)

	reloaded, err := cartService.GetCart(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items)
}

func TestCartService_DeleteCart_RemovesItems(t *testing.T) {
	cartService, testDB, product := setupCartServiceTest(t)

	cart, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(cart.ID, product.ID, 2)
	require.NoError(t, err)

	err = cartService.DeleteCart(cart.ID)
	require.NoError(t, err)

	_, err = cartService.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	var count int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCartService_PurgeAbandoned(t *testing.T) {
	cartService, testDB, product := setupCartServiceTest(t)

	stale, err := cartService.CreateCart()
	require.NoError(t, err)
	_, err = cartService.AddItem(stale.ID, product.ID, 1)
	require.NoError(t, err)

	fresh, err := cartService.CreateCart()
	require.NoError(t, err)

	// Age the first cart past the retention window.
	testDB.Model(&model.Cart{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-48*time.Hour))

	purged, err := cartService.PurgeAbandoned(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = cartService.GetCart(stale.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = cartService.GetCart(fresh.ID)
	assert.NoError(t, err)

	var count int64
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", stale.ID).Count(&count)
	assert.Zero(t, count)
}
