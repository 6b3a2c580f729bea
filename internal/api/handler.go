package api

import (
	"net/http"
	"time"

	"shop-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	categories *service.CategoryService
	products   *service.ProductService
	customers  *service.CustomerService
	orders     *service.OrderService
	env        string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	categories *service.CategoryService,
	products *service.ProductService,
	customers *service.CustomerService,
	orders *service.OrderService,
	env string,
) *Handler {
	return &Handler{
		categories: categories,
		products:   products,
		customers:  customers,
		orders:     orders,
		env:        env,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(correlationMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.listCategories)
		v1.GET("/categories/:id", h.getCategory)
		v1.POST("/categories", h.createCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/:id", h.getCustomer)
		v1.POST("/customers", h.createCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders", h.createOrder)
		v1.PUT("/orders/:id", h.updateOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/orders/:id/items", h.listOrderItems)
		v1.GET("/orders/:id/items/:itemId", h.getOrderItem)
		v1.POST("/orders/:id/items", h.createOrderItem)
		v1.PUT("/orders/:id/items/:itemId", h.updateOrderItem)
		v1.DELETE("/orders/:id/items/:itemId", h.deleteOrderItem)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
