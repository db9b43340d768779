package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionNotEmpty = errors.New("collection still includes products")
)

type CollectionService interface {
	ListCollections() ([]model.Collection, error)
	GetCollection(id uint) (*model.Collection, error)
	CreateCollection(collection *model.Collection) error
	UpdateCollection(collection *model.Collection) error
	DeleteCollection(id uint) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
	productRepo    repository.ProductRepository
}

func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	productRepo repository.ProductRepository,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
	}
}

func (s *collectionService) ListCollections() ([]model.Collection, error) {
	collections, err := s.collectionRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list collections", err, nil)
		return nil, err
	}
	return collections, nil
}

func (s *collectionService) GetCollection(id uint) (*model.Collection, error) {
	collection, err := s.collectionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		logger.Error("Failed to fetch collection", err, map[string]interface{}{
			"collection_id": id,
		})
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) CreateCollection(collection *model.Collection) error {
	logger.Info("Creating collection", map[string]interface{}{
		"title": collection.Title,
	})

	if err := s.collectionRepo.Create(collection); err != nil {
		logger.Error("Failed to create collection", err, map[string]interface{}{
			"title": collection.Title,
		})
		return err
	}
	return nil
}

func (s *collectionService) UpdateCollection(collection *model.Collection) error {
	logger.Info("Updating collection", map[string]interface{}{
		"collection_id": collection.ID,
	})

	if _, err := s.collectionRepo.FindByID(collection.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}

	if err := s.collectionRepo.Update(collection); err != nil {
		logger.Error("Failed to update collection", err, map[string]interface{}{
			"collection_id": collection.ID,
		})
		return err
	}
	return nil
}

// DeleteCollection refuses to delete a collection that still owns products.
func (s *collectionService) DeleteCollection(id uint) error {
	logger.Info("Deleting collection", map[string]interface{}{
		"collection_id": id,
	})

	if _, err := s.collectionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}

	count, err := s.productRepo.CountByCollectionID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Rejected collection delete: collection still includes products", map[string]interface{}{
			"collection_id": id,
			"product_count": count,
		})
		return ErrCollectionNotEmpty
	}

	if err := s.collectionRepo.Delete(id); err != nil {
		logger.Error("Failed to delete collection", err, map[string]interface{}{
			"collection_id": id,
		})
		return err
	}
	return nil
}
