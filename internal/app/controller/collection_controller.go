package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CollectionController struct {
	collectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{
		collectionService: collectionService,
	}
}

type CollectionRequest struct {
	Title string `json:"title" binding:"required"`
}

// ListCollections returns all collections with product counts
// GET /api/v1/collections
func (ctrl *CollectionController) ListCollections(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	collections, err := ctrl.collectionService.ListCollections()
	if err != nil {
		log.Error("Failed to list collections", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"count":       len(collections),
	})
}

// GetCollection returns one collection
// GET /api/v1/collections/:id
func (ctrl *CollectionController) GetCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collection, err := ctrl.collectionService.GetCollection(id)
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
	})
}

// CreateCollection creates a collection (admin)
// POST /api/v1/collections
func (ctrl *CollectionController) CreateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{
			"title": "This field is required.",
		})
		return
	}

	collection := &model.Collection{Title: req.Title}
	if err := ctrl.collectionService.CreateCollection(collection); err != nil {
		log.Error("Failed to create collection", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"collection": collection,
	})
}

// UpdateCollection updates a collection title (admin)
// PUT /api/v1/collections/:id
func (ctrl *CollectionController) UpdateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{
			"title": "This field is required.",
		})
		return
	}

	collection := &model.Collection{ID: id, Title: req.Title}
	if err := ctrl.collectionService.UpdateCollection(collection); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		log.Error("Failed to update collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
	})
}

// DeleteCollection deletes an empty collection (admin). A collection that
// still owns products is rejected with 405.
// DELETE /api/v1/collections/:id
func (ctrl *CollectionController) DeleteCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.collectionService.DeleteCollection(id); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		if errors.Is(err, service.ErrCollectionNotEmpty) {
			apperrors.MethodNotAllowed(c, "Collection cannot be deleted because it includes one or more products.")
			return
		}
		log.Error("Failed to delete collection", err, map[string]interface{}{
			"collection_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// parseIDParam reads a positive integer path parameter, responding 400 on
// failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(value), true
}
