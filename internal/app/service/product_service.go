package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInOrder   = errors.New("product is referenced by an order item")
	ErrInvalidUnitPrice = errors.New("unit price must be greater than zero")
)

type ProductService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
	orderRepo      repository.OrderRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
	orderRepo repository.OrderRepository,
) ProductService {
	return &productService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		orderRepo:      orderRepo,
	}
}

func (s *productService) ListProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, 0, err
	}
	return products, total, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"title": product.Title,
		"slug":  product.Slug,
	})

	if product.UnitPrice <= 0 {
		return ErrInvalidUnitPrice
	}
	if err := s.checkCollection(product.CollectionID); err != nil {
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})

	if product.UnitPrice <= 0 {
		return ErrInvalidUnitPrice
	}
	if err := s.checkCollection(product.CollectionID); err != nil {
		return err
	}

	if _, err := s.productRepo.FindByID(product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// DeleteProduct removes a product and its reviews. A product referenced by
// any order line cannot be deleted: placed orders keep their snapshots.
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	referenced, err := s.orderRepo.HasOrderItemsForProduct(id)
	if err != nil {
		return err
	}
	if referenced {
		logger.Warn("Rejected product delete: referenced by order items", map[string]interface{}{
			"product_id": id,
		})
		return ErrProductInOrder
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) checkCollection(collectionID *uint) error {
	if collectionID == nil {
		return nil
	}
	if _, err := s.collectionRepo.FindByID(*collectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}
	return nil
}
