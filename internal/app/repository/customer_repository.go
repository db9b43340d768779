package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CreateCustomer creates a customer profile
func (r *CustomerRepository) CreateCustomer(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

// GetCustomerByID returns a customer by ID
func (r *CustomerRepository) GetCustomerByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByUserID returns the customer profile attached to a user
func (r *CustomerRepository) GetCustomerByUserID(userID uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns all customer profiles with their users
func (r *CustomerRepository) ListCustomers() ([]model.Customer, error) {
	var customers []model.Customer
	if err := r.db.Preload("User").Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer persists profile changes
func (r *CustomerRepository) UpdateCustomer(customer *model.Customer) error {
	return r.db.Save(customer).Error
}
