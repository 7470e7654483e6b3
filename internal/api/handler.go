package api

import (
	"net/http"
	"strconv"
	"time"

	"watchify/internal/auth"
	"watchify/internal/service"
	"watchify/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains the HTTP handlers.
type Handler struct {
	auth       *service.AuthService
	users      *service.UserService
	products   *service.ProductService
	categories *service.CategoryService
	orders     *service.OrderService
	uploads    *service.UploadService
	guard      *auth.Middleware
}

func NewHandler(
	authSvc *service.AuthService,
	users *service.UserService,
	products *service.ProductService,
	categories *service.CategoryService,
	orders *service.OrderService,
	uploads *service.UploadService,
	guard *auth.Middleware,
) *Handler {
	return &Handler{
		auth:       authSvc,
		users:      users,
		products:   products,
		categories: categories,
		orders:     orders,
		uploads:    uploads,
		guard:      guard,
	}
}

// SetupRoutes registers every route. Catalogue reads are public;
// everything else sits behind the token gate, with mutations and
// cross-user reads restricted to admins.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	api := router.Group("/api")

	// Public catalogue browsing.
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/products/category/:id", h.listProductsByCategory)
	api.GET("/products/brand/:brand", h.listProductsByBrand)
	api.GET("/products/available", h.listAvailableProducts)
	api.GET("/products/popular", h.listPopularProducts)
	api.GET("/products/new-arrivals", h.listNewArrivals)
	api.GET("/categories", h.listCategories)
	api.GET("/categories/:id", h.getCategory)
	api.GET("/categories/name/:name", h.getCategoryByName)
	api.GET("/categories/with-count", h.listCategoriesWithCount)

	authed := api.Group("", h.guard.Authenticate)
	{
		authed.GET("/users/:id", h.guard.RequireSelfOrAdmin("id"), h.getUser)
		authed.PUT("/users/:id", h.guard.RequireSelfOrAdmin("id"), h.updateUser)
		authed.PATCH("/users/:id/password", h.guard.RequireSelfOrAdmin("id"), h.updateUserPassword)

		authed.POST("/orders", h.createOrder)
		authed.GET("/orders/:id", h.getOrder)
		authed.GET("/orders/user/:id", h.guard.RequireSelfOrAdmin("id"), h.listOrdersByUser)
	}

	admin := api.Group("", h.guard.Authenticate, h.guard.RequireAdmin)
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.createUser)
		admin.GET("/users/email/:email", h.getUserByEmail)
		admin.DELETE("/users/:id", h.deleteUser)

		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.PATCH("/products/:id/quantity", h.updateProductQuantity)
		admin.DELETE("/products/:id", h.deleteProduct)

		admin.POST("/categories", h.createCategory)
		admin.PUT("/categories/:id", h.updateCategory)
		admin.DELETE("/categories/:id", h.deleteCategory)

		admin.GET("/orders", h.listOrders)
		admin.GET("/orders/with-users", h.listOrdersWithUsers)
		admin.GET("/orders/status/:status", h.listOrdersByStatus)
		admin.GET("/orders/date-range", h.listOrdersByDateRange)
		admin.PUT("/orders/:id", h.updateOrder)
		admin.PATCH("/orders/:id/status", h.updateOrderStatus)
		admin.DELETE("/orders/:id", h.deleteOrder)

		admin.POST("/upload/image", h.uploadImage)
		admin.DELETE("/upload/image", h.deleteImage)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// pathID parses the named path parameter as an int64 id. Responds 400
// and returns false when it is not a number.
func pathID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid ID", nil)
		return 0, false
	}
	return id, true
}

func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
