package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(collection *model.Collection) error
	FindAll() ([]model.Collection, error)
	FindByID(id uint) (*model.Collection, error)
	Update(collection *model.Collection) error
	Delete(id uint) error
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(collection *model.Collection) error {
	return r.db.Create(collection).Error
}

// FindAll lists collections with their live product counts, scanned from a
// LEFT JOIN aggregate so empty collections report zero.
func (r *collectionRepository) FindAll() ([]model.Collection, error) {
	var collections []model.Collection
	err := r.db.Model(&model.Collection{}).
		Select("collections.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.collection_id = collections.id AND products.deleted_at IS NULL").
		Group("collections.id").
		Order("collections.id ASC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) FindByID(id uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.Model(&model.Collection{}).
		Select("collections.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.collection_id = collections.id AND products.deleted_at IS NULL").
		Where("collections.id = ?", id).
		Group("collections.id").
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) Update(collection *model.Collection) error {
	return r.db.Save(collection).Error
}

func (r *collectionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Collection{}, id).Error
}
