package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	collectionController *controller.CollectionController
	productController    *controller.ProductController
	reviewController     *controller.ReviewController
	cartController       *controller.CartController
	orderController      *controller.OrderController
	customerController   *controller.CustomerController
	uploadController     *controller.UploadController
	orderFeedController  *controller.OrderFeedController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	collectionController *controller.CollectionController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	customerController *controller.CustomerController,
	uploadController *controller.UploadController,
	orderFeedController *controller.OrderFeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		collectionController: collectionController,
		productController:    productController,
		reviewController:     reviewController,
		cartController:       cartController,
		orderController:      orderController,
		customerController:   customerController,
		uploadController:     uploadController,
		orderFeedController:  orderFeedController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	// Live order feed for back-office dashboards.
	router.GET("/ws/orders",
		r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole("admin"),
		r.orderFeedController.Subscribe,
	)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		collections := v1.Group("/collections")
		{
			collections.GET("", r.collectionController.ListCollections)
			collections.GET("/:id", r.collectionController.GetCollection)

			collections.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.CreateCollection,
			)
			collections.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.UpdateCollection,
			)
			collections.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.DeleteCollection,
			)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.ListReviews)
			products.POST("/:id/reviews",
				r.authMiddleware.OptionalAuthenticate(),
				r.reviewController.CreateReview,
			)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
			products.DELETE("/:id/reviews/:review_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.reviewController.DeleteReview,
			)
		}

		// Carts are anonymous: possession of the cart's UUID is the
		// only credential.
		carts := v1.Group("/carts")
		{
			carts.POST("", r.cartController.CreateCart)
			carts.GET("/:cart_id", r.cartController.GetCart)
			carts.DELETE("/:cart_id", r.cartController.DeleteCart)
			carts.GET("/:cart_id/items", r.cartController.ListItems)
			carts.POST("/:cart_id/items", r.cartController.AddItem)
			carts.PATCH("/:cart_id/items/:item_id", r.cartController.UpdateItem)
			carts.DELETE("/:cart_id/items/:item_id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.PlaceOrder)

			orders.PUT("/:id/payment",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.UpdatePayment,
			)
		}

		customers := v1.Group("/customers")
		customers.Use(r.authMiddleware.Authenticate())
		{
			customers.GET("/me", r.customerController.Me)
			customers.PUT("/me", r.customerController.UpdateMe)
			customers.GET("/:id/history", r.customerController.History)

			customers.GET("",
				r.authMiddleware.RequireRole("admin"),
				r.customerController.List,
			)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/product-images",
				r.authMiddleware.RequireRole("admin"),
				r.uploadController.PresignProductImage,
			)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
