package service

import (
	"errors"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomerProfileUpdate struct {
	Phone      *string
	BirthDate  *time.Time
	Membership *model.Membership
}

type CustomerService interface {
	GetOrCreateByUserID(userID uint) (*model.Customer, error)
	GetByID(id uint) (*model.Customer, error)
	UpdateProfile(userID uint, update CustomerProfileUpdate) (*model.Customer, error)
	ListCustomers() ([]model.Customer, error)
}

type customerService struct {
	customerRepo *repository.CustomerRepository
}

func NewCustomerService(customerRepo *repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

// GetOrCreateByUserID returns the user's customer profile, creating an
// empty bronze profile on first access.
func (s *customerService) GetOrCreateByUserID(userID uint) (*model.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByUserID(userID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to fetch customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	customer = &model.Customer{
		UserID:     userID,
		Membership: model.MembershipBronze,
	}
	if err := s.customerRepo.CreateCustomer(customer); err != nil {
		logger.Error("Failed to create customer profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Customer profile created", map[string]interface{}{
		"customer_id": customer.ID,
		"user_id":     userID,
	})
	return customer, nil
}

func (s *customerService) GetByID(id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateProfile(userID uint, update CustomerProfileUpdate) (*model.Customer, error) {
	customer, err := s.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.BirthDate != nil {
		customer.BirthDate = update.BirthDate
	}
	if update.Membership != nil {
		customer.Membership = *update.Membership
	}

	if err := s.customerRepo.UpdateCustomer(customer); err != nil {
		logger.Error("Failed to update customer profile", err, map[string]interface{}{
			"customer_id": customer.ID,
		})
		return nil, err
	}

	logger.Info("Customer profile updated", map[string]interface{}{
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *customerService) ListCustomers() ([]model.Customer, error) {
	customers, err := s.customerRepo.ListCustomers()
	if err != nil {
		logger.Error("Failed to list customers", err, nil)
		return nil, err
	}
	return customers, nil
}
