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

func setupCustomerServiceTest(t *testing.T) (CustomerService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	customerRepo := repository.NewCustomerRepository(testDB)
	customerService := NewCustomerService(customerRepo)

	user := &model.User{
		Email:        "profile@example.com",
		PasswordHash: "hash",
		Name:         "Profile User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return customerService, testDB, user
}

func TestCustomerService_GetOrCreateByUserID_CreatesOnFirstAccess(t *testing.T) {
	customerService, testDB, user := setupCustomerServiceTest(t)

	var before int64
	testDB.Model(&model.Customer{}).Count(&before)
	assert.Zero(t, before)

	customer, err := customerService.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, user.ID, customer.UserID)
	assert.Equal(t, model.MembershipBronze, customer.Membership)

	// A second call returns the same profile, not a duplicate.
	again, err := customerService.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, again.ID)

	var after int64
	testDB.Model(&model.Customer{}).Count(&after)
	assert.Equal(t, int64(1), after)
}

func TestCustomerService_UpdateProfile(t *testing.T) {
	customerService, _, user := setupCustomerServiceTest(t)

	_, err := customerService.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)

	phone := "555-0101"
	birthDate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	gold := model.MembershipGold

	customer, err := customerService.UpdateProfile(user.ID, CustomerProfileUpdate{
		Phone:      &phone,
		BirthDate:  &birthDate,
		Membership: &gold,
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", customer.Phone)
	require.NotNil(t, customer.BirthDate)
	assert.Equal(t, 1990, customer.BirthDate.Year())
	assert.Equal(t, model.MembershipGold, customer.Membership)
}

func TestCustomerService_UpdateProfile_PartialUpdate(t *testing.T) {
	customerService, _, user := setupCustomerServiceTest(t)

	phone := "555-0101"
	_, err := customerService.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	_, err = customerService.UpdateProfile(user.ID, CustomerProfileUpdate{Phone: &phone})
	require.NoError(t, err)

	// Omitted fields keep their values.
	newPhone := "555-0202"
	customer, err := customerService.UpdateProfile(user.ID, CustomerProfileUpdate{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, "555-0202", customer.Phone)
	assert.Equal(t, model.MembershipBronze, customer.Membership)
}

func TestCustomerService_UpdateProfile_CreatesMissingProfile(t *testing.T) {
	customerService, _, user := setupCustomerServiceTest(t)

	phone := "555-0303"
	customer, err := customerService.UpdateProfile(user.ID, CustomerProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0303", customer.Phone)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	customerService, _, _ := setupCustomerServiceTest(t)

	_, err := customerService.GetByID(9999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerService_ListCustomers(t *testing.T) {
	customerService, testDB, user := setupCustomerServiceTest(t)

	_, err := customerService.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)

	other := &model.User{Email: "second@example.com", PasswordHash: "hash", Name: "Second", Role: model.RoleUser}
	testDB.Create(other)
	_, err = customerService.GetOrCreateByUserID(other.ID)
	require.NoError(t, err)

	customers, err := customerService.ListCustomers()
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}
