package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Title        string  `json:"title" binding:"required"`
	Slug         string  `json:"slug" binding:"required"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unit_price" binding:"required,gt=0"`
	Inventory    int     `json:"inventory" binding:"gte=0"`
	CollectionID *uint   `json:"collection_id"`
}

// ListProducts returns products with filtering, sorting and pagination
// GET /api/v1/products?collection_id=&search=&sort=&order=&page=&page_size=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Search: c.Query("search"),
	}

	if raw := c.Query("collection_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid collection_id parameter")
			return
		}
		collectionID := uint(id)
		filter.CollectionID = &collectionID
	}

	switch c.Query("sort") {
	case "unit_price":
		filter.SortBy = repository.ProductSortUnitPrice
	case "last_update":
		filter.SortBy = repository.ProductSortLastUpdate
	case "":
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unsupported sort field")
		return
	}
	filter.SortAscending = c.DefaultQuery("order", "asc") != "desc"

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	products, total, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"count":     len(products),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product (admin)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := &model.Product{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.BadRequest(c, apperrors.CollectionNotFound, "The referenced collection does not exist")
			return
		}
		if errors.Is(err, service.ErrInvalidUnitPrice) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Unit price must be greater than zero")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"title": req.Title,
		})
		info := apperrors.ParseError(err, "product create")
		apperrors.RespondWithError(c, apperrors.StatusForCode(info.Code), info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product (admin)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product := &model.Product{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
	}

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrCollectionNotFound) {
			apperrors.BadRequest(c, apperrors.CollectionNotFound, "The referenced collection does not exist")
			return
		}
		if errors.Is(err, service.ErrInvalidUnitPrice) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Unit price must be greater than zero")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct deletes a product (admin). A product referenced by order
// items is rejected with 405.
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductInOrder) {
			apperrors.MethodNotAllowed(c, "Product cannot be deleted because it is associated with an order item.")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}
