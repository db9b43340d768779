package repository

import (
	"fmt"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortUnitPrice  ProductSort = "unit_price"
	ProductSortLastUpdate ProductSort = "last_update"
)

type ProductFilter struct {
	CollectionID  *uint
	Search        string
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	CountByCollectionID(collectionID uint) (int64, error)
	BulkCreate(products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":         product.Title,
		"slug":          product.Slug,
		"collection_id": product.CollectionID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title": product.Title,
			"slug":  product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"title":      product.Title,
	})
	return nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter in database", map[string]interface{}{
		"collection_id": filter.CollectionID,
		"search":        filter.Search,
		"sort_by":       filter.SortBy,
	})

	query := r.db.Model(&model.Product{})

	if filter.CollectionID != nil {
		query = query.Where("collection_id = ?", *filter.CollectionID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products in database", err, nil)
		return nil, 0, err
	}

	switch filter.SortBy {
	case ProductSortUnitPrice, ProductSortLastUpdate:
		direction := "DESC"
		if filter.SortAscending {
			direction = "ASC"
		}
		query = query.Order(fmt.Sprintf("%s %s", filter.SortBy, direction))
	default:
		query = query.Order("id ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Preload("Collection").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter in database", err, nil)
		return nil, 0, err
	}

	logger.Debug("Products found with filter in database", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Collection").First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// Delete removes the product together with its reviews and any cart lines
// referencing it. The cascades are applied here because soft deletes bypass
// database-level ON DELETE.
func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product in database", map[string]interface{}{
		"product_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			logger.Error("Failed to delete product reviews in database", err, map[string]interface{}{
				"product_id": id,
			})
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			logger.Error("Failed to delete product cart lines in database", err, map[string]interface{}{
				"product_id": id,
			})
			return err
		}
		if err := tx.Delete(&model.Product{}, id).Error; err != nil {
			logger.Error("Failed to delete product in database", err, map[string]interface{}{
				"product_id": id,
			})
			return err
		}
		return nil
	})
}

// BulkCreate inserts products in batches. Used by the catalog import tool.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}

	logger.Info("Bulk creating products in database", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, nil)
		return err
	}
	return nil
}

func (r *productRepository) CountByCollectionID(collectionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count products by collection in database", err, map[string]interface{}{
			"collection_id": collectionID,
		})
		return 0, err
	}
	return count, nil
}
